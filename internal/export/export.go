// Package export writes the string tables of resource scripts as JSON,
// YAML or Markdown.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/rcstrings/internal/logging"
	"github.com/klauern/rcstrings/internal/model"
)

// Format represents the output format of an export.
type Format string

const (
	// FormatJSON exports tables as JSON.
	FormatJSON Format = "json"
	// FormatYAML exports tables as YAML.
	FormatYAML Format = "yaml"
	// FormatMarkdown exports tables as Markdown.
	FormatMarkdown Format = "markdown"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// AllFormats returns all supported export formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown}
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: json, yaml, markdown)", s)
	}
	return format, nil
}

// Options configures export behavior.
type Options struct {
	// Format specifies the output format.
	Format Format
	// Pretty enables indentation for JSON and YAML.
	Pretty bool
	// IncludeMetadata adds the script path, project and header to each table.
	IncludeMetadata bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{
		Format:          FormatJSON,
		Pretty:          true,
		IncludeMetadata: true,
	}
}

// Table is the string table of one resource script, in id order.
type Table struct {
	File    model.ResourceFile
	Entries []model.StringEntry
}

// Exporter writes tables in one format.
type Exporter struct {
	opts Options
}

// New creates a new Exporter with the given options.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Export writes the tables to w in the configured format.
func (e *Exporter) Export(tables []Table, w io.Writer) error {
	logging.Debug("starting export",
		slog.String("format", string(e.opts.Format)),
		logging.Count(len(tables)),
		logging.Operation("export"),
	)

	var err error
	switch e.opts.Format {
	case FormatJSON:
		err = e.exportJSON(tables, w)
	case FormatYAML:
		err = e.exportYAML(tables, w)
	case FormatMarkdown:
		err = e.exportMarkdown(tables, w)
	default:
		err = fmt.Errorf("unsupported format: %s", e.opts.Format)
	}

	if err != nil {
		logging.Error("export failed",
			slog.String("format", string(e.opts.Format)),
			logging.Err(err),
		)
		return err
	}
	return nil
}

type exportEntry struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Define string `json:"define,omitempty" yaml:"define,omitempty"`
}

type exportTable struct {
	File    string        `json:"file" yaml:"file"`
	Path    string        `json:"path,omitempty" yaml:"path,omitempty"`
	Project string        `json:"project,omitempty" yaml:"project,omitempty"`
	Header  string        `json:"header,omitempty" yaml:"header,omitempty"`
	Entries []exportEntry `json:"entries" yaml:"entries"`
}

func (e *Exporter) toExportTables(tables []Table) []exportTable {
	out := make([]exportTable, len(tables))
	for i, t := range tables {
		et := exportTable{
			File:    t.File.FileName(),
			Entries: make([]exportEntry, len(t.Entries)),
		}
		if e.opts.IncludeMetadata {
			et.Path = t.File.Path()
			et.Project = t.File.ProjectName()
			et.Header = t.File.HeaderPath()
		}
		for j, s := range t.Entries {
			et.Entries[j] = exportEntry{ID: s.ID, Name: s.Name, Value: s.Value, Define: s.Define}
		}
		out[i] = et
	}
	return out
}

func (e *Exporter) exportJSON(tables []Table, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if e.opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(e.toExportTables(tables))
}

func (e *Exporter) exportYAML(tables []Table, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	if e.opts.Pretty {
		encoder.SetIndent(2)
	}
	if err := encoder.Encode(e.toExportTables(tables)); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}

func (e *Exporter) exportMarkdown(tables []Table, w io.Writer) error {
	total := 0
	for _, t := range tables {
		total += len(t.Entries)
	}

	var sb strings.Builder
	sb.WriteString("# String resources\n\n")
	sb.WriteString(fmt.Sprintf("Total: %d string(s) in %d file(s)\n", total, len(tables)))

	for _, t := range tables {
		sb.WriteString("\n")
		sb.WriteString(e.formatMarkdownTable(t))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (e *Exporter) formatMarkdownTable(t Table) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s\n\n", t.File.FileName()))

	if e.opts.IncludeMetadata {
		sb.WriteString("| Property | Value |\n")
		sb.WriteString("|----------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Path | `%s` |\n", t.File.Path()))
		if p := t.File.ProjectName(); p != "" {
			sb.WriteString(fmt.Sprintf("| Project | %s |\n", p))
		}
		if h := t.File.HeaderPath(); h != "" {
			sb.WriteString(fmt.Sprintf("| Header | `%s` |\n", h))
		}
		sb.WriteString("\n")
	}

	if len(t.Entries) == 0 {
		sb.WriteString("*No strings*\n")
		return sb.String()
	}

	sb.WriteString("| ID | Name | Value |\n")
	sb.WriteString("|---:|------|-------|\n")
	for _, s := range t.Entries {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", s.ID, s.Name, markdownCell(s.Value)))
	}
	return sb.String()
}

// markdownCell keeps a value on one table row.
func markdownCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\r", "", "\n", " ").Replace(s)
}
