package rcfile

import (
	"strings"

	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/tokenizer"
)

type parseState int

const (
	outside parseState = iota
	tableHeader
	tableBody
)

// Parse builds a model from the lines of a resource script. Entry lines
// whose id cannot be resolved, or whose name or id is already taken, are
// kept as raw lines and reported by Unresolved and Duplicates.
func Parse(lines []string, symbols Symbols, format Format) *Content {
	c := New(format)
	state := outside

	for _, text := range lines {
		fields := tokenizer.Resource.Split(text)
		l := line{text: text}

		switch state {
		case outside:
			if len(fields) > 0 && strings.EqualFold(fields[0], "STRINGTABLE") {
				c.blocks++
				state = tableHeader
				if opensBody(fields[1:]) {
					state = tableBody
				}
			}
		case tableHeader:
			if len(fields) > 0 && isBegin(fields[0]) {
				state = tableBody
			}
		case tableBody:
			if len(fields) > 0 && isEnd(fields[0]) {
				l.kind = blockEnd
				l.block = c.blocks - 1
				state = outside
				break
			}
			if e, ok := parseEntry(fields); ok {
				if c.resolve(e, symbols, text) {
					l.kind = entryLine
					l.name = e.Name
					c.lastBlock = c.blocks - 1
				}
			}
		}
		c.lines = append(c.lines, l)
	}
	return c
}

type parsedEntry struct {
	Name      string
	Value     string
	CommentID int
	HasID     bool
}

// parseEntry reads NAME [,] [L]"VALUE" [// ID].
func parseEntry(fields []string) (parsedEntry, bool) {
	if len(fields) < 2 || !isSymbol(fields[0]) {
		return parsedEntry{}, false
	}
	vi := 1
	if fields[vi] == "L" && len(fields) > 2 {
		vi++
	}
	if !tokenizer.Resource.IsQuoted(fields[vi]) {
		return parsedEntry{}, false
	}
	e := parsedEntry{Name: fields[0], Value: tokenizer.Resource.Unquote(fields[vi])}

	rest := fields[vi+1:]
	if len(rest) > 0 && strings.HasPrefix(rest[0], "//") {
		idText := strings.TrimPrefix(rest[0], "//")
		if idText == "" && len(rest) > 1 {
			idText = rest[1]
		}
		e.CommentID, e.HasID = tokenizer.ParseInt(idText)
	}
	return e, true
}

func (c *Content) resolve(p parsedEntry, symbols Symbols, text string) bool {
	se := model.StringEntry{Name: p.Name, Value: p.Value}
	if id, ok := tokenizer.ParseInt(p.Name); ok {
		se.ID = id
	} else if id, ok := symbols.Primary[p.Name]; ok {
		se.ID, se.Define = id, p.Name
	} else if id, ok := symbols.Foreign[p.Name]; ok {
		se.ID = id
	} else if p.HasID {
		se.ID, se.Define = p.CommentID, p.Name
	} else {
		c.unresolved = append(c.unresolved, p.Name)
		return false
	}

	if _, ok := c.entries[se.Name]; ok {
		c.duplicates = append(c.duplicates, se.Name)
		return false
	}
	if _, ok := c.byID[se.ID]; ok {
		c.duplicates = append(c.duplicates, se.Name)
		return false
	}
	c.store(&entry{StringEntry: se, original: se.Value, idComment: p.HasID})
	return true
}

func opensBody(fields []string) bool {
	for _, f := range fields {
		if isBegin(f) {
			return true
		}
	}
	return false
}

func isBegin(field string) bool { return field == "{" || strings.EqualFold(field, "BEGIN") }

func isEnd(field string) bool { return field == "}" || strings.EqualFold(field, "END") }

func isSymbol(field string) bool {
	if field == "" {
		return false
	}
	for _, r := range field {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
