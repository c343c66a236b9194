package settings

import (
	"path/filepath"
	"testing"

	"github.com/klauern/rcstrings/internal/util"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("RCSTRINGS_HOME", util.CreateTempDir(t))

	s, err := Load()
	util.AssertNoError(t, err)
	util.AssertEqual(t, len(s.Solutions), 0)

	sol := s.Get("/src/demo/rcstrings.toml")
	util.AssertEqual(t, sol.ReplaceWith, "{0}")
	util.AssertEqual(t, sol.IsReplacingWith, false)
}

func TestSaveAndReload(t *testing.T) {
	home := util.CreateTempDir(t)
	t.Setenv("RCSTRINGS_HOME", home)

	s, err := Load()
	util.AssertNoError(t, err)
	s.Set("a", Solution{ReplaceWith: "_T({0})", IsReplacingWith: true})
	s.Select("a", "/src/app/app.rc", "App")
	s.Select("b", "/src/lib/lib.rc", "Lib")
	util.AssertNoError(t, s.Save())
	util.AssertEqual(t, s.Path(), filepath.Join(home, "settings.yaml"))

	loaded, err := Load()
	util.AssertNoError(t, err)
	util.AssertEqual(t, loaded.Get("a"), Solution{
		Project:         "App",
		SelectedRC:      "/src/app/app.rc",
		ReplaceWith:     "_T({0})",
		IsReplacingWith: true,
	})
	util.AssertEqual(t, loaded.Get("b").SelectedRC, "/src/lib/lib.rc")
	util.AssertEqual(t, loaded.Get("b").Template(), "{0}")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(util.CreateTempDir(t), "settings.yaml")
	util.WriteFile(t, path, "solutions: [")

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestTemplate(t *testing.T) {
	util.AssertEqual(t, Solution{}.Template(), "{0}")
	util.AssertEqual(t, Solution{ReplaceWith: "IDS({0})"}.Template(), "IDS({0})")
}
