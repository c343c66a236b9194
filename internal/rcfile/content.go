// Package rcfile models the STRINGTABLE entries of one resource script.
//
// The model keeps the script's physical lines so that a rewrite only touches
// entries that were edited or added. Everything else, including lines the
// parser could not resolve, is written back verbatim.
package rcfile

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/klauern/rcstrings/internal/ids"
	"github.com/klauern/rcstrings/internal/model"
)

// DefaultValueColumn is the zero-based column of a formatted entry's
// opening quote.
const DefaultValueColumn = 28

const indent = "    "

// Format controls how edited and added entries are written.
type Format struct {
	// ValueColumn is where the opening quote of the value goes.
	ValueColumn int
	// IDComment appends "// ID" to every formatted entry.
	IDComment bool
}

// Symbols are the #define names visible to a resource script.
type Symbols struct {
	// Primary holds the defines of the paired header.
	Primary map[string]int
	// Foreign holds defines from sibling headers.
	Foreign map[string]int
}

type lineKind int

const (
	rawLine lineKind = iota
	entryLine
	blockEnd
)

type line struct {
	text  string
	kind  lineKind
	name  string // entryLine
	block int    // blockEnd
}

type entry struct {
	model.StringEntry
	original  string
	idComment bool
}

// Content is the in-memory model of one resource script.
type Content struct {
	format     Format
	lines      []line
	entries    map[string]*entry
	byID       map[int]string
	added      []string
	blocks     int
	lastBlock  int
	unresolved []string
	duplicates []string
}

// New returns an empty model.
func New(format Format) *Content {
	if format.ValueColumn <= 0 {
		format.ValueColumn = DefaultValueColumn
	}
	return &Content{
		format:    format,
		entries:   make(map[string]*entry),
		byID:      make(map[int]string),
		lastBlock: -1,
	}
}

// ParseString splits text into lines and parses them.
func ParseString(text string, symbols Symbols, format Format) *Content {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return Parse(lines, symbols, format)
}

// AddResource stores a new entry whose define belongs to the paired header.
func (c *Content) AddResource(value, name string, id int) error {
	if _, ok := c.entries[name]; ok {
		return &model.DuplicateNameError{Name: name}
	}
	if owner, ok := c.byID[id]; ok {
		return &model.DuplicateIDError{ID: id, Owner: owner}
	}
	c.store(&entry{
		StringEntry: model.StringEntry{Name: name, ID: id, Value: value, Define: name},
		idComment:   c.format.IDComment,
	})
	c.added = append(c.added, name)
	return nil
}

// UpdateValue replaces the value of an existing entry.
func (c *Content) UpdateValue(name, value string) error {
	e, ok := c.entries[name]
	if !ok {
		return &model.NotFoundError{Name: name}
	}
	e.Value = value
	return nil
}

// GetByName returns the entry called name.
func (c *Content) GetByName(name string) (model.StringEntry, bool) {
	e, ok := c.entries[name]
	if !ok {
		return model.StringEntry{}, false
	}
	return e.StringEntry, true
}

// IsNameWithEmptyFields reports whether name exists and has no define in
// the paired header.
func (c *Content) IsNameWithEmptyFields(name string) bool {
	e, ok := c.entries[name]
	return ok && e.HasEmptyFields()
}

// SortedByID returns all entries in ascending id order.
func (c *Content) SortedByID() []model.StringEntry {
	out := make([]model.StringEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.StringEntry)
	}
	slices.SortFunc(out, func(a, b model.StringEntry) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// IDs returns the set of ids in use.
func (c *Content) IDs() ids.Set {
	set := make(ids.Set, len(c.byID))
	for id := range c.byID {
		set.Add(id)
	}
	return set
}

// Names returns the entry names sorted alphabetically.
func (c *Content) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of entries.
func (c *Content) Len() int { return len(c.entries) }

// Added returns the entries added since parsing, in ascending id order.
func (c *Content) Added() []model.StringEntry {
	out := make([]model.StringEntry, 0, len(c.added))
	for _, name := range c.added {
		out = append(out, c.entries[name].StringEntry)
	}
	slices.SortFunc(out, func(a, b model.StringEntry) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Unresolved lists entry lines whose id could not be determined.
func (c *Content) Unresolved() []string { return slices.Clone(c.unresolved) }

// Duplicates lists entry lines skipped because their name or id was taken.
func (c *Content) Duplicates() []string { return slices.Clone(c.duplicates) }

func (c *Content) store(e *entry) {
	c.entries[e.Name] = e
	c.byID[e.ID] = e.Name
}

// Lines renders the script.
func (c *Content) Lines() []string {
	rendered := c.render()
	out := make([]string, len(rendered))
	for i, l := range rendered {
		out[i] = l.text
	}
	return out
}

// Commit makes the rendered script the new baseline, as after a write.
// Entries added so far become ordinary entries of their table.
func (c *Content) Commit() {
	rendered := c.render()
	for i, l := range rendered {
		if l.kind == blockEnd && l.block >= c.blocks {
			c.blocks = l.block + 1
		}
		if l.kind == entryLine {
			c.lastBlock = enclosingBlock(rendered, i)
		}
	}
	for _, e := range c.entries {
		e.original = e.Value
	}
	c.lines = rendered
	c.added = nil
}

func enclosingBlock(lines []line, i int) int {
	for ; i < len(lines); i++ {
		if lines[i].kind == blockEnd {
			return lines[i].block
		}
	}
	return -1
}

func (c *Content) render() []line {
	pending := c.Added()
	target := c.lastBlock
	if target < 0 && c.blocks > 0 {
		target = c.blocks - 1
	}
	formatted := func(name string) line {
		return line{text: c.formatEntry(c.entries[name]), kind: entryLine, name: name}
	}

	out := make([]line, 0, len(c.lines)+len(pending)+4)
	for _, l := range c.lines {
		switch l.kind {
		case entryLine:
			if e := c.entries[l.name]; e.Value != e.original {
				l = formatted(l.name)
			}
		case blockEnd:
			if l.block == target {
				for _, se := range pending {
					out = append(out, formatted(se.Name))
				}
				pending = nil
			}
		}
		out = append(out, l)
	}

	if len(pending) > 0 {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1].text) != "" {
			out = append(out, line{})
		}
		out = append(out, line{text: "STRINGTABLE"}, line{text: "BEGIN"})
		for _, se := range pending {
			out = append(out, formatted(se.Name))
		}
		out = append(out, line{text: "END", kind: blockEnd, block: c.blocks})
	}
	return out
}

// String renders the script with "\n" line endings.
func (c *Content) String() string {
	lines := c.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (c *Content) formatEntry(e *entry) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(e.Name)
	if pad := c.format.ValueColumn - b.Len(); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	} else {
		b.WriteByte(' ')
	}
	b.WriteByte('"')
	b.WriteString(e.Value)
	b.WriteByte('"')
	if e.idComment {
		b.WriteString(" // ")
		b.WriteString(strconv.Itoa(e.ID))
	}
	return b.String()
}
