package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/rcstrings/internal/logging"
	"github.com/klauern/rcstrings/internal/util"
)

// runCLI runs the application with stdout captured.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	runErr := Run(context.Background(), append([]string{"rcstrings"}, args...))

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close pipe writer: %v", err)
	}
	os.Stdout = old
	out := <-done
	_ = r.Close()
	return out, runErr
}

const (
	appRC = "#include \"resource.h\"\n" +
		"\n" +
		"STRINGTABLE\n" +
		"BEGIN\n" +
		"    IDS_A                   \"Hello\"\n" +
		"END\n"
	appHeader = "#define IDS_A                           101\n"
	libRC     = "STRINGTABLE\n" +
		"BEGIN\n" +
		"    IDS_LIB                 \"Library\" // 7\n" +
		"END\n"
)

type solution struct {
	dir      string
	manifest string
	rc       string
	header   string
	lib      string
}

// newSolution writes a manifest with an App project holding app.rc and
// its header, and optionally a Lib project with a header-less script.
func newSolution(t *testing.T, withLib bool) solution {
	t.Helper()
	dir := util.CreateTempDir(t)
	t.Setenv("RCSTRINGS_HOME", filepath.Join(dir, "home"))

	s := solution{
		dir:      dir,
		manifest: filepath.Join(dir, "rcstrings.toml"),
		rc:       filepath.Join(dir, "app", "app.rc"),
		header:   filepath.Join(dir, "app", "resource.h"),
		lib:      filepath.Join(dir, "lib", "lib.rc"),
	}
	manifest := "name = \"Demo\"\n\n[[projects]]\nname = \"App\"\ndir = \"app\"\n"
	if withLib {
		manifest += "\n[[projects]]\nname = \"Lib\"\ndir = \"lib\"\n"
		util.WriteFile(t, s.lib, libRC)
	}
	util.WriteFile(t, s.manifest, manifest)
	util.WriteFile(t, s.rc, appRC)
	util.WriteFile(t, s.header, appHeader)
	return s
}

func TestVersionVariables(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestConfigureLogging(t *testing.T) {
	tests := map[string]struct {
		args      []string
		wantLevel slog.Level
	}{
		"no flags only shows warnings": {
			args:      []string{"version"},
			wantLevel: slog.LevelWarn,
		},
		"verbose flag enables info level": {
			args:      []string{"--verbose", "version"},
			wantLevel: slog.LevelInfo,
		},
		"debug flag enables debug level": {
			args:      []string{"--debug", "version"},
			wantLevel: slog.LevelDebug,
		},
		"debug wins over verbose": {
			args:      []string{"--verbose", "--debug", "version"},
			wantLevel: slog.LevelDebug,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			oldStderr := os.Stderr
			devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
			if err != nil {
				t.Fatal(err)
			}
			os.Stderr = devNull
			t.Cleanup(func() {
				os.Stderr = oldStderr
				_ = devNull.Close()
				logging.SetDefault(logging.New(logging.DefaultOptions()))
			})

			if _, err := runCLI(t, tt.args...); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			logger := slog.Default()
			for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
				want := level >= tt.wantLevel
				if got := logger.Enabled(context.Background(), level); got != want {
					t.Errorf("Enabled(%v) = %v, want %v", level, got, want)
				}
			}
		})
	}
}
