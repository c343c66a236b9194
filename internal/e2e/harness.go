// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It runs the rcstrings command in-process against an isolated home
// directory and a throwaway solution tree.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/klauern/rcstrings/internal/cli"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Stderr contains the captured standard error (logs and progress).
	Stderr string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness runs CLI commands with RCSTRINGS_HOME pointing at a temp
// directory, so configuration, settings and backups never leak between
// tests.
type Harness struct {
	t       *testing.T
	homeDir string
}

// NewHarness creates a new E2E test harness.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	h := &Harness{
		t:       t,
		homeDir: t.TempDir(),
	}
	h.SetEnv("RCSTRINGS_HOME", h.homeDir)
	h.SetEnv("NO_COLOR", "1")
	return h
}

// SetEnv sets an environment variable for the rest of the test.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.t.Setenv(key, value)
}

// HomeDir returns the isolated rcstrings home of this harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// Run executes a CLI command with the given arguments and captures the output.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	if len(args) == 0 || args[0] != "rcstrings" {
		args = append([]string{"rcstrings"}, args...)
	}

	oldStdout, oldStderr := os.Stdout, os.Stderr
	stdoutR, stdoutW := h.pipe()
	stderrR, stderrW := h.pipe()
	os.Stdout, os.Stderr = stdoutW, stderrW

	// Both pipes are drained while the command runs so large output
	// cannot fill the pipe buffer and block it.
	stdout := drain(stdoutR)
	stderr := drain(stderrR)

	cmdErr := cli.Run(context.Background(), args)

	os.Stdout, os.Stderr = oldStdout, oldStderr
	for _, w := range []*os.File{stdoutW, stderrW} {
		if err := w.Close(); err != nil {
			h.t.Fatalf("failed to close pipe writer: %v", err)
		}
	}

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   <-stdout,
		Stderr:   <-stderr,
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}

func (h *Harness) pipe() (*os.File, *os.File) {
	h.t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create pipe: %v", err)
	}
	h.t.Cleanup(func() { _ = r.Close() })
	return r, w
}

func drain(r io.Reader) <-chan string {
	out := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		out <- buf.String()
	}()
	return out
}
