package header

import (
	"os"
	"strings"

	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/textenc"
)

// Source supplies the entries a header pass merges.
type Source interface {
	// SortedByID returns every entry in ascending id order.
	SortedByID() []model.StringEntry
	// IsNameWithEmptyFields reports entries whose define lives elsewhere.
	IsNameWithEmptyFields(name string) bool
}

// Options configure a Synchronizer.
type Options struct {
	IDColumn         int
	FallbackCodepage int
}

// Stats counts the lines a pass synthesized.
type Stats struct {
	// Inserted defines were placed before the first larger id.
	Inserted int
	// Appended defines were written after the last define, ahead of the
	// resource editor block.
	Appended int
}

// Changed reports whether the pass synthesized any line.
func (s Stats) Changed() bool { return s.Inserted+s.Appended > 0 }

// Synchronizer merges string entries into header lines.
type Synchronizer struct {
	idColumn         int
	fallbackCodepage int
}

// New returns a Synchronizer.
func New(opts Options) *Synchronizer {
	if opts.IDColumn <= 0 {
		opts.IDColumn = DefaultIDColumn
	}
	return &Synchronizer{idColumn: opts.IDColumn, fallbackCodepage: opts.FallbackCodepage}
}

// Merge walks lines once with a cursor over src's entries and returns the
// header with every missing define added. Existing lines keep their
// position and spacing. Entries whose define lives in another header are
// never written. Resource editor symbols take no part in ordering, and
// appended defines land ahead of the APSTUDIO_INVOKED block when the
// header has one.
func (s *Synchronizer) Merge(lines []string, src Source) ([]string, Stats) {
	entries := src.SortedByID()
	defined := Defines(lines)
	foreign := func(e model.StringEntry) bool { return src.IsNameWithEmptyFields(e.Name) }
	missing := func(e model.StringEntry) bool {
		_, ok := defined[e.Name]
		return !ok && !foreign(e)
	}

	var (
		out      = make([]string, 0, len(lines)+len(entries))
		deferred []model.StringEntry
		stats    Stats
		inserted bool
		cursor   int
	)

	for _, l := range lines {
		d, ok := ParseDefine(l)
		if !ok || IsBookkeeping(d.Name) || cursor >= len(entries) {
			out = append(out, l)
			continue
		}
		for cursor < len(entries) && foreign(entries[cursor]) {
			cursor++
		}
		if cursor >= len(entries) {
			out = append(out, l)
			continue
		}

		if d.ID > entries[cursor].ID {
			var block []model.StringEntry
			for cursor < len(entries) && entries[cursor].ID < d.ID {
				if missing(entries[cursor]) {
					block = append(block, entries[cursor])
				}
				cursor++
			}
			if !inserted && len(block) > 0 {
				for _, e := range block {
					out = append(out, FormatDefine(e.Name, e.ID, s.idColumn))
					defined[e.Name] = e.ID
				}
				stats.Inserted += len(block)
				inserted = true
			} else {
				deferred = append(deferred, block...)
			}
		}
		// A foreign symbol sharing the id does not define the entry.
		if cursor < len(entries) && entries[cursor].ID == d.ID && entries[cursor].Name == d.Name {
			cursor++
		}
		out = append(out, l)
	}

	var appended []string
	tail := append(deferred, entries[min(cursor, len(entries)):]...)
	for _, e := range tail {
		if !missing(e) {
			continue
		}
		appended = append(appended, FormatDefine(e.Name, e.ID, s.idColumn))
		defined[e.Name] = e.ID
		stats.Appended++
	}
	if len(appended) == 0 {
		return out, stats
	}

	at := editorBlock(out)
	if at < 0 {
		return append(out, appended...), stats
	}
	merged := make([]string, 0, len(out)+len(appended))
	merged = append(merged, out[:at]...)
	merged = append(merged, appended...)
	return append(merged, out[at:]...), stats
}

// editorBlock returns the index of the "#ifdef APSTUDIO_INVOKED" line that
// opens the resource editor's section, or -1.
func editorBlock(lines []string) int {
	for i, l := range lines {
		f := strings.Fields(l)
		if len(f) >= 2 && f[0] == "#ifdef" && f[1] == editorSymbol {
			return i
		}
	}
	return -1
}

// WriteFile reads the header at readPath completely, merges src into it
// and writes the result to writePath with the source encoding and newline
// style. readPath and writePath may be the same file.
func (s *Synchronizer) WriteFile(src Source, readPath, writePath string) (Stats, error) {
	doc, err := textenc.ReadFile(readPath, s.fallbackCodepage)
	if err != nil {
		return Stats{}, &model.IOError{Op: "read header", Path: readPath, Err: err}
	}

	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(readPath); statErr == nil {
		perm = info.Mode().Perm()
	}

	merged, stats := s.Merge(doc.Lines, src)
	doc.Lines = merged
	if err := doc.WriteFile(writePath, perm); err != nil {
		return stats, &model.IOError{Op: "write header", Path: writePath, Err: err}
	}
	return stats, nil
}
