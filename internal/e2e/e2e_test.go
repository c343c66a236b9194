package e2e

import (
	"strings"
	"testing"

	"github.com/klauern/rcstrings/internal/backup"
)

const (
	appRC = "#include \"resource.h\"\n" +
		"\n" +
		"STRINGTABLE\n" +
		"BEGIN\n" +
		"    IDS_A                   \"Hello\"\n" +
		"END\n"
	appHeader = "//{{NO_DEPENDENCIES}}\n" +
		"#define IDS_A                           101\n" +
		"\n" +
		"#ifdef APSTUDIO_INVOKED\n" +
		"#define _APS_NEXT_SYMED_VALUE           500\n" +
		"#endif\n"
	libRC = "STRINGTABLE\n" +
		"BEGIN\n" +
		"    IDS_LIB                 \"Library\" // 7\n" +
		"END\n"
)

func TestAddEditSyncWorkflow(t *testing.T) {
	h := NewHarness(t)
	sln := h.SolutionFixture("Demo", "app")
	rc := sln.WriteFile("app/app.rc", appRC)
	hdr := sln.WriteFile("app/resource.h", appHeader)
	m := sln.Manifest()

	r := h.Run("-m", m, "add", "IDS_B", `Say "hi"`)
	AssertSuccess(t, r)
	AssertStdout(t, r, "added IDS_B = 102")
	AssertLine(t, rc, `    IDS_B                   "Say ""hi"""`)
	AssertFileBytes(t, hdr, strings.Replace(appHeader, "#ifdef APSTUDIO_INVOKED",
		"#define IDS_B                           102\n#ifdef APSTUDIO_INVOKED", 1))

	r = h.Run("-m", m, "edit", "IDS_B", "Bye")
	AssertSuccess(t, r)
	AssertLine(t, rc, `    IDS_B                   "Bye"`)

	r = h.Run("-m", m, "list")
	AssertSuccess(t, r)
	AssertStdout(t, r, "2 string(s)", `   102  IDS_B`)
	AssertStdoutLacks(t, r, "defined elsewhere")

	r = h.Run("-m", m, "sync-header", "--skip-backup")
	AssertSuccess(t, r)
	AssertStdout(t, r, "already up to date")

	r = h.Run("backup", "list")
	AssertSuccess(t, r)
	AssertStdout(t, r, "Rc", "Header")

	history, err := backup.History(rc)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) < 2 {
		t.Fatalf("expected a backup per rewrite of %s, got %d", rc, len(history))
	}
	oldest := history[len(history)-1]
	AssertSuccess(t, h.Run("backup", "restore", oldest.ID))
	AssertFileBytes(t, rc, appRC)
}

func TestUTF16ResourceScript(t *testing.T) {
	h := NewHarness(t)
	sln := h.SolutionFixture("Demo", "app")
	rc := sln.WriteUTF16File("app/app.rc", strings.ReplaceAll(appRC, "\n", "\r\n"))
	hdr := sln.WriteFile("app/resource.h", appHeader)

	r := h.Run("-m", sln.Manifest(), "add", "--skip-backup", "IDS_B", "Grüße")
	AssertSuccess(t, r)

	text := sln.ReadUTF16File("app/app.rc")
	if !strings.Contains(text, "    IDS_B                   \"Grüße\"\r\nEND\r\n") {
		t.Errorf("entry not written as UTF-16 with CRLF:\n%q", text)
	}
	AssertLinesFollow(t, rc, `    IDS_B                   "Grüße"`, "END")
	AssertDefine(t, hdr, "IDS_B", 102)
}

func TestRandomIDsFromEnvironment(t *testing.T) {
	h := NewHarness(t)
	h.SetEnv("RCSTRINGS_IDS_RANDOM", "true")
	h.SetEnv("RCSTRINGS_IDS_MIN", "700")
	h.SetEnv("RCSTRINGS_IDS_MAX", "700")
	sln := h.SolutionFixture("Demo", "app")
	sln.WriteFile("app/app.rc", appRC)
	hdr := sln.WriteFile("app/resource.h", appHeader)

	r := h.Run("-m", sln.Manifest(), "add", "IDS_R", "Random")
	AssertSuccess(t, r)
	AssertStdout(t, r, "added IDS_R = 700")
	AssertLinesFollow(t, hdr, "#define IDS_R                           700", "#ifdef APSTUDIO_INVOKED")

	AssertFailure(t, h.Run("-m", sln.Manifest(), "add", "IDS_S", "No room"), "700")
}

func TestBackupsDisabled(t *testing.T) {
	h := NewHarness(t)
	h.SetEnv("RCSTRINGS_BACKUP_ENABLED", "no")
	sln := h.SolutionFixture("Demo", "app")
	sln.WriteFile("app/app.rc", appRC)
	sln.WriteFile("app/resource.h", appHeader)

	AssertSuccess(t, h.Run("-m", sln.Manifest(), "add", "IDS_B", "World"))

	r := h.Run("backup", "list")
	AssertSuccess(t, r)
	AssertStdout(t, r, "No backups found")
}

func TestSeveralProjects(t *testing.T) {
	h := NewHarness(t)
	sln := h.SolutionFixture("Demo", "app", "lib")
	sln.WriteFile("app/app.rc", appRC)
	sln.WriteFile("app/resource.h", appHeader)
	lib := sln.WriteFile("lib/lib.rc", libRC)
	m := sln.Manifest()

	r := h.Run("-m", m, "files")
	AssertSuccess(t, r)
	AssertStdout(t, r, "Solution Demo", "no header")

	AssertFailure(t, h.Run("-m", m, "add", "IDS_X", "x"), "choose one with --file")

	r = h.Run("-m", m, "add", "--file", "lib.rc", "IDS_X", "x")
	AssertSuccess(t, r)
	AssertStdout(t, r, "added IDS_X = 8", "no paired header found")
	AssertLine(t, lib, `    IDS_X                   "x" // 8`)

	// the script chosen last time is used again, and the comment keeps
	// IDS_X's id for the next session
	r = h.Run("-m", m, "add", "IDS_Y", "y")
	AssertSuccess(t, r)
	AssertStdout(t, r, "added IDS_Y = 9")
	AssertLine(t, lib, `    IDS_Y                   "y" // 9`)

	r = h.Run("-m", m, "edit", "IDS_A", "Hi")
	AssertSuccess(t, r)
	AssertLine(t, sln.Path("app/app.rc"), `    IDS_A                   "Hi"`)
}

func TestCommandErrors(t *testing.T) {
	h := NewHarness(t)
	sln := h.SolutionFixture("Demo", "app")
	sln.WriteFile("app/app.rc", appRC)
	sln.WriteFile("app/resource.h", appHeader)
	m := sln.Manifest()

	tests := map[string]struct {
		args    []string
		wantErr string
	}{
		"add without value":  {args: []string{"-m", m, "add", "IDS_B"}, wantErr: "exactly 2 arguments"},
		"add duplicate name": {args: []string{"-m", m, "add", "IDS_A", "again"}, wantErr: "IDS_A"},
		"edit unknown name":  {args: []string{"-m", m, "edit", "IDS_NOPE", "x"}, wantErr: "can not be found"},
		"export bad format":  {args: []string{"-m", m, "export", "--format", "xml"}, wantErr: "unsupported format"},
		"restore unknown id": {args: []string{"backup", "restore", "nope"}, wantErr: "not found"},
		"missing manifest":   {args: []string{"-m", sln.Path("none.toml"), "list"}, wantErr: "none.toml"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			AssertFailure(t, h.Run(tt.args...), tt.wantErr)
		})
	}
}
