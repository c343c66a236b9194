package header

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/rcfile"
	"github.com/klauern/rcstrings/internal/util"
)

// entries is a Source backed by a slice already in id order.
type entries []model.StringEntry

func (e entries) SortedByID() []model.StringEntry { return e }

func (e entries) IsNameWithEmptyFields(name string) bool {
	for _, se := range e {
		if se.Name == name {
			return se.Define == ""
		}
	}
	return false
}

func local(name string, id int) model.StringEntry {
	return model.StringEntry{Name: name, ID: id, Value: "v", Define: name}
}

func foreign(name string, id int) model.StringEntry {
	return model.StringEntry{Name: name, ID: id, Value: "v"}
}

func TestMergeInsertsBetweenNeighbours(t *testing.T) {
	lines := []string{
		"#define IDS_ONE    1",
		"#define IDS_TWO    2",
		"#define IDS_FOUR   4",
	}
	src := entries{local("IDS_ONE", 1), local("IDS_TWO", 2), local("IDS_THREE", 3), local("IDS_FOUR", 4)}

	got, stats := New(Options{}).Merge(lines, src)

	util.AssertLines(t, got, []string{
		"#define IDS_ONE    1",
		"#define IDS_TWO    2",
		"#define IDS_THREE                       3",
		"#define IDS_FOUR   4",
	})
	util.AssertEqual(t, stats, Stats{Inserted: 1})
}

func TestMergeEndToEnd(t *testing.T) {
	lines := []string{"#define IDS_A  101"}
	src := entries{local("IDS_A", 101), local("IDS_B", 102)}

	got, stats := New(Options{}).Merge(lines, src)

	util.AssertLines(t, got, []string{
		"#define IDS_A  101",
		"#define IDS_B                           102",
	})
	util.AssertEqual(t, stats, Stats{Appended: 1})
}

func TestMergeIsIdempotent(t *testing.T) {
	lines := []string{
		"// header",
		"#define IDS_ONE 1",
		"",
		"#define IDS_FIVE 5",
		"#define _APS_NEXT_SYMED_VALUE 101",
	}
	src := entries{local("IDS_ONE", 1), local("IDS_TWO", 2), local("IDS_FIVE", 5), local("IDS_NINE", 9)}
	s := New(Options{})

	first, _ := s.Merge(lines, src)
	second, stats := s.Merge(first, src)

	util.AssertLines(t, second, first)
	util.AssertEqual(t, stats.Changed(), false)
}

func TestMergePreservesForeignLines(t *testing.T) {
	lines := []string{
		"//{{NO_DEPENDENCIES}}",
		"#define IDD_ABOUTBOX       100",
		"#define IDS_ONE            1",
		"#ifdef APSTUDIO_INVOKED",
		"#define _APS_NEXT_RESOURCE_VALUE 130",
		"#endif",
	}
	src := entries{local("IDS_ONE", 1)}

	got, stats := New(Options{}).Merge(lines, src)

	util.AssertLines(t, got, lines)
	util.AssertEqual(t, stats.Changed(), false)
}

func TestMergeSharedIDDoesNotHideEntry(t *testing.T) {
	tests := map[string]struct {
		lines []string
		want  []string
	}{
		"editor symbol": {
			lines: []string{
				"#define IDS_A  101",
				"#ifdef APSTUDIO_INVOKED",
				"#define _APS_NEXT_SYMED_VALUE 102",
				"#endif",
			},
			want: []string{
				"#define IDS_A  101",
				"#define IDS_B                           102",
				"#define IDS_C                           103",
				"#ifdef APSTUDIO_INVOKED",
				"#define _APS_NEXT_SYMED_VALUE 102",
				"#endif",
			},
		},
		"dialog id": {
			lines: []string{
				"#define IDS_A  101",
				"#define IDD_MAIN 102",
				"#define IDS_C  103",
			},
			want: []string{
				"#define IDS_A  101",
				"#define IDD_MAIN 102",
				"#define IDS_B                           102",
				"#define IDS_C  103",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := entries{local("IDS_A", 101), local("IDS_B", 102), local("IDS_C", 103)}
			got, stats := New(Options{}).Merge(tt.lines, src)

			util.AssertLines(t, got, tt.want)
			util.AssertEqual(t, stats.Changed(), true)
			util.AssertEqual(t, Defines(got)["IDS_B"], 102)
		})
	}
}

func TestMergeKeepsDefinesOutOfEditorBlock(t *testing.T) {
	lines := []string{
		"#define IDS_A  101",
		"",
		"#ifdef APSTUDIO_INVOKED",
		"#ifndef APSTUDIO_READONLY_SYMBOLS",
		"#define _APS_NEXT_RESOURCE_VALUE 130",
		"#define _APS_NEXT_SYMED_VALUE 500",
		"#endif",
		"#endif",
	}
	src := entries{local("IDS_A", 101), local("IDS_B", 102), local("IDS_BIG", 900)}
	s := New(Options{})

	got, stats := s.Merge(lines, src)

	util.AssertLines(t, got, []string{
		"#define IDS_A  101",
		"",
		"#define IDS_B                           102",
		"#define IDS_BIG                         900",
		"#ifdef APSTUDIO_INVOKED",
		"#ifndef APSTUDIO_READONLY_SYMBOLS",
		"#define _APS_NEXT_RESOURCE_VALUE 130",
		"#define _APS_NEXT_SYMED_VALUE 500",
		"#endif",
		"#endif",
	})
	util.AssertEqual(t, stats, Stats{Appended: 2})

	again, stats := s.Merge(got, src)
	util.AssertLines(t, again, got)
	util.AssertEqual(t, stats.Changed(), false)
}

func TestMergeSkipsForeignEntries(t *testing.T) {
	lines := []string{
		"#define IDS_ONE 1",
		"#define IDS_FIVE 5",
	}
	src := entries{local("IDS_ONE", 1), foreign("IDS_SHARED", 3), local("IDS_FOUR", 4), local("IDS_FIVE", 5), foreign("IDS_LATE", 9)}

	got, _ := New(Options{}).Merge(lines, src)

	util.AssertLines(t, got, []string{
		"#define IDS_ONE 1",
		"#define IDS_FOUR                        4",
		"#define IDS_FIVE 5",
	})
}

func TestMergeSingleInlineBlock(t *testing.T) {
	lines := []string{
		"#define IDS_ONE 1",
		"#define IDS_FOUR 4",
		"#define IDS_SEVEN 7",
	}
	src := entries{
		local("IDS_ONE", 1),
		local("IDS_TWO", 2),
		local("IDS_THREE", 3),
		local("IDS_FOUR", 4),
		local("IDS_SIX", 6),
		local("IDS_SEVEN", 7),
	}

	got, stats := New(Options{}).Merge(lines, src)

	util.AssertLines(t, got, []string{
		"#define IDS_ONE 1",
		"#define IDS_TWO                         2",
		"#define IDS_THREE                       3",
		"#define IDS_FOUR 4",
		"#define IDS_SEVEN 7",
		"#define IDS_SIX                         6",
	})
	util.AssertEqual(t, stats, Stats{Inserted: 2, Appended: 1})
}

func TestMergeDoesNotDuplicateOutOfOrderDefines(t *testing.T) {
	lines := []string{
		"#define IDS_FIVE 5",
		"#define IDS_ONE 1",
	}
	src := entries{local("IDS_ONE", 1), local("IDS_FIVE", 5)}

	got, _ := New(Options{}).Merge(lines, src)
	util.AssertLines(t, got, lines)
}

func TestMergeEmptyHeader(t *testing.T) {
	src := entries{local("IDS_A", 1), local("IDS_B", 2)}
	got, stats := New(Options{IDColumn: 20}).Merge(nil, src)

	util.AssertLines(t, got, []string{
		"#define IDS_A       1",
		"#define IDS_B       2",
	})
	util.AssertEqual(t, stats.Appended, 2)
}

func TestMergeIgnoresNonIntegerDefines(t *testing.T) {
	lines := []string{
		"#define IDS_BASE (100)",
		"#define IDS_TEN 0x0A",
		"#define",
	}
	src := entries{local("IDS_NINE", 9), local("IDS_TEN", 10)}

	got, _ := New(Options{}).Merge(lines, src)

	util.AssertLines(t, got, []string{
		"#define IDS_BASE (100)",
		"#define IDS_NINE                        9",
		"#define IDS_TEN 0x0A",
		"#define",
	})
}

func TestMergeWithParsedModel(t *testing.T) {
	rc := "STRINGTABLE\nBEGIN\n    IDS_A \"Hello\"\n    IDS_OTHER \"Other\"\nEND\n"
	content := rcfile.ParseString(rc, rcfile.Symbols{
		Primary: map[string]int{"IDS_A": 101},
		Foreign: map[string]int{"IDS_OTHER": 103},
	}, rcfile.Format{})
	if err := content.AddResource("World", "IDS_B", 102); err != nil {
		t.Fatal(err)
	}

	got, _ := New(Options{}).Merge([]string{"#define IDS_A  101"}, content)

	util.AssertLines(t, got, []string{
		"#define IDS_A  101",
		"#define IDS_B                           102",
	})
}

func TestWriteFilePreservesEncoding(t *testing.T) {
	dir := util.CreateTempDir(t)
	path := filepath.Join(dir, "resource.h")
	util.WriteFile(t, path, "\ufeff//{{NO_DEPENDENCIES}}\r\n#define IDS_A  101\r\n")

	stats, err := New(Options{}).WriteFile(entries{local("IDS_A", 101), local("IDS_B", 102)}, path, path)
	util.AssertNoError(t, err)
	util.AssertEqual(t, stats.Appended, 1)

	want := "\ufeff//{{NO_DEPENDENCIES}}\r\n#define IDS_A  101\r\n#define IDS_B                           102\r\n"
	util.AssertEqual(t, util.ReadFile(t, path), want)
}

func TestWriteFileToOtherPath(t *testing.T) {
	dir := util.CreateTempDir(t)
	src := filepath.Join(dir, "resource.h")
	dst := filepath.Join(dir, "out", "resource.h")
	util.WriteFile(t, src, "#define IDS_A 1\n")
	util.WriteFile(t, dst, "stale\n")

	_, err := New(Options{}).WriteFile(entries{local("IDS_A", 1)}, src, dst)
	util.AssertNoError(t, err)
	util.AssertEqual(t, util.ReadFile(t, dst), "#define IDS_A 1\n")
	util.AssertEqual(t, util.ReadFile(t, src), "#define IDS_A 1\n")
}

func TestWriteFileMissingSource(t *testing.T) {
	dir := util.CreateTempDir(t)
	_, err := New(Options{}).WriteFile(entries{}, filepath.Join(dir, "missing.h"), filepath.Join(dir, "out.h"))
	if err == nil || !strings.Contains(err.Error(), "read header") {
		t.Errorf("WriteFile() error = %v, want read header error", err)
	}
}
