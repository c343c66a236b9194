package e2e

import (
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/klauern/rcstrings/internal/header"
	"github.com/klauern/rcstrings/internal/textenc"
)

// AssertSuccess stops the test when the command returned an error.
func AssertSuccess(t *testing.T, r *Result) {
	t.Helper()
	if r.Err != nil {
		t.Fatalf("rcstrings failed: %v\nstdout:\n%s\nstderr:\n%s", r.Err, r.Stdout, r.Stderr)
	}
}

// AssertFailure checks that the command exited with status 1 and an
// error mentioning want.
func AssertFailure(t *testing.T, r *Result, want string) {
	t.Helper()
	if r.Err == nil {
		t.Fatalf("rcstrings succeeded, want an error mentioning %q\nstdout:\n%s", want, r.Stdout)
	}
	if r.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", r.ExitCode)
	}
	if !strings.Contains(r.Err.Error(), want) {
		t.Errorf("error %q does not mention %q", r.Err, want)
	}
}

// AssertStdout checks that every string in want was printed.
func AssertStdout(t *testing.T, r *Result, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(r.Stdout, w) {
			t.Errorf("stdout lacks %q:\n%s", w, r.Stdout)
		}
	}
}

// AssertStdoutLacks checks that unwanted was not printed.
func AssertStdoutLacks(t *testing.T, r *Result, unwanted string) {
	t.Helper()
	if strings.Contains(r.Stdout, unwanted) {
		t.Errorf("stdout has %q:\n%s", unwanted, r.Stdout)
	}
}

// AssertDefine checks that the header at path defines name as id.
func AssertDefine(t *testing.T, path, name string, id int) {
	t.Helper()
	defines, err := header.ReadDefines(path, textenc.DefaultCodepage)
	if err != nil {
		t.Fatalf("ReadDefines(%s) error = %v", path, err)
	}
	got, ok := defines[name]
	switch {
	case !ok:
		t.Errorf("%s has no define for %s", path, name)
	case got != id:
		t.Errorf("%s defines %s as %d, want %d", path, name, got, id)
	}
}

// AssertLine decodes the file at path, whatever its encoding, and checks
// that one of its lines equals want.
func AssertLine(t *testing.T, path, want string) {
	t.Helper()
	lines := readLines(t, path)
	if !slices.Contains(lines, want) {
		t.Errorf("%s has no line %q:\n%s", path, want, strings.Join(lines, "\n"))
	}
}

// AssertLinesFollow checks that the file at path has a line equal to
// first directly followed by one equal to second.
func AssertLinesFollow(t *testing.T, path, first, second string) {
	t.Helper()
	lines := readLines(t, path)
	for i := 0; i+1 < len(lines); i++ {
		if lines[i] == first && lines[i+1] == second {
			return
		}
	}
	t.Errorf("%s has no %q directly before %q:\n%s", path, first, second, strings.Join(lines, "\n"))
}

// AssertFileBytes checks that the file at path holds exactly want.
func AssertFileBytes(t *testing.T, path, want string) {
	t.Helper()
	// #nosec G304 - path is provided by test code
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s differs\nwant: %q\ngot:  %q", path, want, string(data))
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	doc, err := textenc.ReadFile(path, textenc.DefaultCodepage)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return doc.Lines
}
