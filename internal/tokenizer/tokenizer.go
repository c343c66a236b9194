// Package tokenizer splits raw text lines into delimiter-separated fields.
// Both the resource-script parser and the header synchronizer decide the
// shape of a line by the fields it produces.
package tokenizer

import (
	"strconv"
	"strings"
)

const (
	// HeaderDelims separates the parts of a "#define NAME ID" line.
	HeaderDelims = " \t"
	// ResourceDelims separates the parts of a STRINGTABLE entry line.
	ResourceDelims = " \t,"
)

// Tokenizer splits lines on a fixed set of delimiter characters.
// When Quote is non-zero, a quoted run is kept as a single field including
// its quotes, and a doubled quote inside the run is an escaped quote.
type Tokenizer struct {
	Delims string
	Quote  byte
}

// New returns a tokenizer without quote grouping.
func New(delims string) Tokenizer {
	return Tokenizer{Delims: delims}
}

// NewQuoted returns a tokenizer that keeps quoted runs together.
func NewQuoted(delims string, quote byte) Tokenizer {
	return Tokenizer{Delims: delims, Quote: quote}
}

// Header is the tokenizer for header define lines.
var Header = New(HeaderDelims)

// Resource is the tokenizer for STRINGTABLE entry lines.
var Resource = NewQuoted(ResourceDelims, '"')

// Split splits line with a plain tokenizer for delims.
func Split(line, delims string) []string {
	return New(delims).Split(line)
}

// Split returns the non-empty, trimmed fields of line in order.
// An unterminated quoted run extends to the end of the line.
func (t Tokenizer) Split(line string) []string {
	var fields []string
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		if f := strings.TrimSpace(line[start:end]); f != "" {
			fields = append(fields, f)
		}
		start = -1
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		if t.Quote != 0 && c == t.Quote {
			// a quote glued to a word still starts its own field
			flush(i)
			start = i
			i = t.closingQuote(line, i+1)
			flush(i + 1)
			continue
		}
		if strings.IndexByte(t.Delims, c) >= 0 {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(line))

	return fields
}

// closingQuote returns the index of the quote closing a run opened before
// from, or len(line)-1 when the run is unterminated.
func (t Tokenizer) closingQuote(line string, from int) int {
	for i := from; i < len(line); i++ {
		if line[i] != t.Quote {
			continue
		}
		if i+1 < len(line) && line[i+1] == t.Quote {
			i++
			continue
		}
		return i
	}
	return len(line) - 1
}

// IsQuoted reports whether field is a complete quoted run.
func (t Tokenizer) IsQuoted(field string) bool {
	if t.Quote == 0 || len(field) < 2 {
		return false
	}
	return field[0] == t.Quote && field[len(field)-1] == t.Quote
}

// Unquote strips the surrounding quotes from a quoted field.
// Escapes inside the run are left untouched.
func (t Tokenizer) Unquote(field string) string {
	if !t.IsQuoted(field) {
		return field
	}
	return field[1 : len(field)-1]
}

// ParseInt parses a decimal or 0x-prefixed hexadecimal identifier field.
// Negative values are rejected.
func ParseInt(field string) (int, bool) {
	base := 10
	digits := field
	if len(field) > 2 && field[0] == '0' && (field[1] == 'x' || field[1] == 'X') {
		base = 16
		digits = field[2:]
	}
	n, err := strconv.ParseUint(digits, base, 31)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
