// Package replace formats the code that takes the place of a literal once
// it has been moved into a string resource, and applies it to a source file.
package replace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/textenc"
)

// DefaultTemplate inserts the bare resource name.
const DefaultTemplate = "{0}"

// placeholder is substituted with the resource name.
const placeholder = "{0}"

// ErrSelectionNotFound is returned when the selected text is not in the file.
var ErrSelectionNotFound = errors.New("selection not found in source file")

// TemplateOrDefault returns template, or DefaultTemplate when it is empty.
func TemplateOrDefault(template string) string {
	if strings.TrimSpace(template) == "" {
		return DefaultTemplate
	}
	return template
}

// Format substitutes every {0} in template with name.
func Format(template, name string) string {
	return strings.ReplaceAll(TemplateOrDefault(template), placeholder, name)
}

// InFile replaces the first occurrence of selection in the file at path
// with code, keeping the file's encoding and newline style.
func InFile(path, selection, code string, fallbackCodepage int) error {
	if selection == "" {
		return errors.New("empty selection")
	}
	// only the first line of a multi-line selection is used
	if i := strings.IndexAny(selection, "\r\n"); i >= 0 {
		selection = selection[:i]
	}

	doc, err := textenc.ReadFile(path, fallbackCodepage)
	if err != nil {
		return &model.IOError{Op: "read", Path: path, Err: err}
	}

	for i, line := range doc.Lines {
		if idx := strings.Index(line, selection); idx >= 0 {
			doc.Lines[i] = line[:idx] + code + line[idx+len(selection):]
			if err := doc.WriteFile(path, 0o644); err != nil {
				return &model.IOError{Op: "write", Path: path, Err: err}
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %q in %s", ErrSelectionNotFound, selection, path)
}
