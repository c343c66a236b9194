// Package header keeps the #define lines of a resource header in step with
// the string entries of its resource script.
package header

import (
	"strconv"
	"strings"

	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/textenc"
	"github.com/klauern/rcstrings/internal/tokenizer"
)

const (
	// DefaultIDColumn is the zero-based column where a synthesized id starts.
	DefaultIDColumn = 40

	definePrefix = "#define "
	// apsPrefix marks the resource editor's own bookkeeping symbols.
	apsPrefix    = "_APS_"
	// editorSymbol guards the resource editor's section of a header.
	editorSymbol = "APSTUDIO_INVOKED"
)

// Define is one "#define NAME ID" line.
type Define struct {
	Name string
	ID   int
}

// ParseDefine reports whether line is a define with an integer id.
func ParseDefine(line string) (Define, bool) {
	fields := tokenizer.Header.Split(line)
	if len(fields) < 3 || fields[0] != "#define" {
		return Define{}, false
	}
	id, ok := tokenizer.ParseInt(fields[2])
	if !ok {
		return Define{}, false
	}
	return Define{Name: fields[1], ID: id}, true
}

// Defines collects the integer defines of lines. The first define of a
// name wins.
func Defines(lines []string) map[string]int {
	out := make(map[string]int)
	for _, l := range lines {
		if d, ok := ParseDefine(l); ok {
			if _, seen := out[d.Name]; !seen {
				out[d.Name] = d.ID
			}
		}
	}
	return out
}

// ReadDefines reads the integer defines of the header at path.
func ReadDefines(path string, fallbackCodepage int) (map[string]int, error) {
	doc, err := textenc.ReadFile(path, fallbackCodepage)
	if err != nil {
		return nil, &model.IOError{Op: "read header", Path: path, Err: err}
	}
	return Defines(doc.Lines), nil
}

// IsBookkeeping reports whether name is a resource editor symbol such as
// _APS_NEXT_RESOURCE_VALUE. Such ids are not string identifiers.
func IsBookkeeping(name string) bool {
	return strings.HasPrefix(name, apsPrefix)
}

// FormatDefine renders a define with the id starting at column, or one
// space after the name when the name reaches the column.
func FormatDefine(name string, id, column int) string {
	head := definePrefix + name
	sep := " "
	if len(head) < column-1 {
		sep = strings.Repeat(" ", column-len(head))
	}
	return head + sep + strconv.Itoa(id)
}
