package e2e

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/klauern/rcstrings/internal/project"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	return f.writeBytes(relPath, []byte(content))
}

// WriteUTF16File writes content as UTF-16LE with a byte order mark, the
// way Visual Studio saves resource scripts.
func (f *Fixture) WriteUTF16File(relPath, content string) string {
	f.t.Helper()
	data, err := utf16LE().NewEncoder().Bytes([]byte(content))
	if err != nil {
		f.t.Fatalf("failed to encode %s: %v", relPath, err)
	}
	return f.writeBytes(relPath, data)
}

func (f *Fixture) writeBytes(relPath string, data []byte) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// ReadUTF16File decodes a UTF-16LE file, failing when the BOM is missing.
func (f *Fixture) ReadUTF16File(relPath string) string {
	f.t.Helper()
	data := f.readBytes(relPath)
	if !bytes.HasPrefix(data, []byte{0xFF, 0xFE}) {
		f.t.Fatalf("%s has no UTF-16LE byte order mark", relPath)
	}
	text, err := utf16LE().NewDecoder().Bytes(data)
	if err != nil {
		f.t.Fatalf("failed to decode %s: %v", relPath, err)
	}
	return string(text)
}

func (f *Fixture) readBytes(relPath string) []byte {
	f.t.Helper()
	fullPath := f.Path(relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return data
}

// Manifest returns the path of the solution manifest in the fixture.
func (f *Fixture) Manifest() string {
	return f.Path("rcstrings.toml")
}

func utf16LE() encoding.Encoding {
	return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
}

// SolutionFixture creates a temporary solution directory with an
// rcstrings.toml listing one project per directory name.
func (h *Harness) SolutionFixture(name string, projects ...string) *Fixture {
	h.t.Helper()

	f := NewFixture(h.t, h.t.TempDir())
	m := project.Manifest{Name: name}
	for _, p := range projects {
		m.Projects = append(m.Projects, project.ProjectConfig{Name: p, Dir: p})
		if err := os.MkdirAll(f.Path(p), 0o750); err != nil {
			h.t.Fatalf("failed to create project directory %s: %v", p, err)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		h.t.Fatalf("failed to encode manifest: %v", err)
	}
	f.WriteFile("rcstrings.toml", buf.String())
	return f
}
