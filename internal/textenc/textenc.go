// Package textenc reads and writes resource scripts and headers in the
// encoding they were saved with. Visual Studio writes .rc files as UTF-16LE
// with a BOM, older projects use an ANSI codepage, headers are usually
// ASCII or UTF-8.
package textenc

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultCodepage is assumed for files that are neither UTF-8 nor UTF-16.
const DefaultCodepage = 1252

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoding describes how a file's bytes map to text.
type Encoding struct {
	Name string
	// BOM records whether the file started with a byte order mark.
	BOM bool
	enc encoding.Encoding
}

// UTF8 is plain UTF-8 without a BOM.
var UTF8 = Encoding{Name: "utf-8"}

// Codepage returns the encoding for a Windows codepage number.
func Codepage(cp int) (encoding.Encoding, error) {
	switch cp {
	case 437:
		return charmap.CodePage437, nil
	case 850:
		return charmap.CodePage850, nil
	case 866:
		return charmap.CodePage866, nil
	case 874:
		return charmap.Windows874, nil
	case 932:
		return japanese.ShiftJIS, nil
	case 936:
		return simplifiedchinese.GBK, nil
	case 949:
		return korean.EUCKR, nil
	case 950:
		return traditionalchinese.Big5, nil
	case 1250:
		return charmap.Windows1250, nil
	case 1251:
		return charmap.Windows1251, nil
	case 1252:
		return charmap.Windows1252, nil
	case 1253:
		return charmap.Windows1253, nil
	case 1254:
		return charmap.Windows1254, nil
	case 1255:
		return charmap.Windows1255, nil
	case 1256:
		return charmap.Windows1256, nil
	case 1257:
		return charmap.Windows1257, nil
	case 1258:
		return charmap.Windows1258, nil
	default:
		return nil, fmt.Errorf("unsupported codepage %d", cp)
	}
}

// Detect picks the encoding of data: a BOM wins, valid UTF-8 is UTF-8,
// anything else is decoded with the fallback codepage.
func Detect(data []byte, fallbackCodepage int) (Encoding, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return Encoding{Name: "utf-8", BOM: true}, nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return Encoding{Name: "utf-16le", BOM: true, enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)}, nil
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return Encoding{Name: "utf-16be", BOM: true, enc: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)}, nil
	case utf8.Valid(data):
		return UTF8, nil
	}

	if fallbackCodepage == 0 {
		fallbackCodepage = DefaultCodepage
	}
	enc, err := Codepage(fallbackCodepage)
	if err != nil {
		return Encoding{}, err
	}
	return Encoding{Name: fmt.Sprintf("cp%d", fallbackCodepage), enc: enc}, nil
}

// Decode converts data to text using its detected encoding.
func Decode(data []byte, fallbackCodepage int) (string, Encoding, error) {
	e, err := Detect(data, fallbackCodepage)
	if err != nil {
		return "", Encoding{}, err
	}
	text, err := e.Decode(data)
	if err != nil {
		return "", Encoding{}, err
	}
	return text, e, nil
}

// Decode converts data in this encoding to text, dropping any BOM.
func (e Encoding) Decode(data []byte) (string, error) {
	if e.enc == nil {
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}
	out, _, err := transform.Bytes(e.enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", e.Name, err)
	}
	return strings.TrimPrefix(string(out), "\uFEFF"), nil
}

// Encode converts text to bytes in this encoding, restoring the BOM.
func (e Encoding) Encode(text string) ([]byte, error) {
	if e.enc == nil {
		if e.BOM {
			return append(append([]byte(nil), utf8BOM...), text...), nil
		}
		return []byte(text), nil
	}
	out, _, err := transform.Bytes(e.enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Name, err)
	}
	return out, nil
}

// Document is the decoded text of one file split into lines.
type Document struct {
	Lines    []string
	Encoding Encoding
	// Newline is the line terminator the file uses ("\n" or "\r\n").
	Newline string
}

// Parse decodes data and splits it into lines.
func Parse(data []byte, fallbackCodepage int) (*Document, error) {
	text, enc, err := Decode(data, fallbackCodepage)
	if err != nil {
		return nil, err
	}
	lines, newline := SplitLines(text)
	return &Document{Lines: lines, Encoding: enc, Newline: newline}, nil
}

// ReadFile reads and decodes the file at path.
func ReadFile(path string, fallbackCodepage int) (*Document, error) {
	// #nosec G304 - path comes from the scanned project
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, fallbackCodepage)
}

// Text joins lines with the document newline, terminating every line.
func (d *Document) Text() string {
	if len(d.Lines) == 0 {
		return ""
	}
	nl := d.Newline
	if nl == "" {
		nl = "\n"
	}
	return strings.Join(d.Lines, nl) + nl
}

// Bytes encodes the document text.
func (d *Document) Bytes() ([]byte, error) {
	return d.Encoding.Encode(d.Text())
}

// WriteFile writes the encoded document to path, truncating it.
func (d *Document) WriteFile(path string, perm os.FileMode) (err error) {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	// #nosec G304 - path comes from the scanned project
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	_, err = f.Write(data)
	return err
}

// SplitLines splits text into lines without terminators and reports the
// newline style of the first line break ("\n" when there is none).
// A trailing newline does not produce an empty final line.
func SplitLines(text string) ([]string, string) {
	newline := "\n"
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		newline = "\r\n"
	}
	if text == "" {
		return nil, newline
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, newline
}
