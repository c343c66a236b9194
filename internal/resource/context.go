// Package resource binds one resource script to its headers and carries
// add and edit requests through to both files.
package resource

import (
	"errors"
	"log/slog"
	"os"
	"slices"

	"github.com/klauern/rcstrings/internal/backup"
	"github.com/klauern/rcstrings/internal/header"
	"github.com/klauern/rcstrings/internal/ids"
	"github.com/klauern/rcstrings/internal/logging"
	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/rcfile"
	"github.com/klauern/rcstrings/internal/textenc"
)

// Options configure a Context.
type Options struct {
	Format rcfile.Format
	Header header.Options
	// Backup copies each file into the backup store before it is rewritten.
	Backup bool
	// Generator assigns ids in AddNewResource. Nil uses the process-wide
	// generator and id mode.
	Generator *ids.Generator
	Logger    *slog.Logger
}

// Context is one resource script, its paired header and sibling headers.
// The script is parsed on first use.
type Context struct {
	file    model.ResourceFile
	opts    Options
	log     *slog.Logger
	content *rcfile.Content
	doc     *textenc.Document
	primary map[string]int
	foreign map[string]int
}

// NewContext returns a Context for file.
func NewContext(file model.ResourceFile, opts Options) *Context {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	return &Context{
		file: file,
		opts: opts,
		log:  log.With(logging.File(file.Path())),
	}
}

// File returns the resource script the context is bound to.
func (c *Context) File() model.ResourceFile { return c.file }

// Content returns the parsed model, loading it on first use.
func (c *Context) Content() (*rcfile.Content, error) {
	if c.content != nil {
		return c.content, nil
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.content, nil
}

func (c *Context) load() error {
	cp := c.opts.Header.FallbackCodepage

	primary := map[string]int{}
	if hp := c.file.HeaderPath(); hp != "" {
		defines, err := header.ReadDefines(hp, cp)
		if err != nil {
			return err
		}
		primary = defines
	}

	foreign := map[string]int{}
	for _, sibling := range c.file.SiblingHeaders() {
		defines, err := header.ReadDefines(sibling, cp)
		if err != nil {
			c.log.Warn("skipping unreadable header", logging.Header(sibling), logging.Err(err))
			continue
		}
		for name, id := range defines {
			if _, ok := foreign[name]; !ok {
				foreign[name] = id
			}
		}
	}

	doc, err := textenc.ReadFile(c.file.Path(), cp)
	if err != nil {
		return &model.IOError{Op: "read rc", Path: c.file.Path(), Err: err}
	}

	// Without a paired header the comment is the only record of an id.
	format := c.opts.Format
	if c.file.HeaderPath() == "" {
		format.IDComment = true
	}
	content := rcfile.Parse(doc.Lines, rcfile.Symbols{Primary: primary, Foreign: foreign}, format)
	for _, name := range content.Unresolved() {
		c.log.Warn("string entry has no id", logging.Resource(name))
	}
	for _, name := range content.Duplicates() {
		c.log.Warn("duplicate string entry ignored", logging.Resource(name))
	}
	c.log.Debug("loaded resource script",
		logging.Count(content.Len()),
		logging.Header(c.file.HeaderPath()),
		slog.String("encoding", doc.Encoding.Name))

	c.doc, c.content = doc, content
	c.primary, c.foreign = primary, foreign
	return nil
}

// AddResource adds an entry with an explicit id.
func (c *Context) AddResource(value, name string, id int) error {
	content, err := c.Content()
	if err != nil {
		return err
	}
	if err := content.AddResource(value, name, id); err != nil {
		return err
	}
	c.log.Info("added string resource", logging.Resource(name), logging.ID(id))
	return nil
}

// AddNewResource adds an entry with a generated id and returns the id.
func (c *Context) AddNewResource(value, name string) (int, error) {
	content, err := c.Content()
	if err != nil {
		return 0, err
	}
	if _, ok := content.GetByName(name); ok {
		return 0, &model.DuplicateNameError{Name: name}
	}
	id, err := c.NextID()
	if err != nil {
		return 0, err
	}
	if err := c.AddResource(value, name, id); err != nil {
		return 0, err
	}
	return id, nil
}

// NextID returns the id AddNewResource would assign.
func (c *Context) NextID() (int, error) {
	used, err := c.UsedIDs()
	if err != nil {
		return 0, err
	}
	if c.opts.Generator != nil {
		return c.opts.Generator.Next(used, ids.Random())
	}
	return ids.Next(used)
}

// UsedIDs returns the ids of the model and of every header define, leaving
// out the resource editor's _APS_ symbols.
func (c *Context) UsedIDs() (ids.Set, error) {
	content, err := c.Content()
	if err != nil {
		return nil, err
	}
	used := content.IDs()
	for _, defines := range []map[string]int{c.primary, c.foreign} {
		for name, id := range defines {
			if !header.IsBookkeeping(name) {
				used.Add(id)
			}
		}
	}
	return used, nil
}

// GetStringResourceByName looks an entry up by name.
func (c *Context) GetStringResourceByName(name string) (model.StringEntry, bool, error) {
	content, err := c.Content()
	if err != nil {
		return model.StringEntry{}, false, err
	}
	e, ok := content.GetByName(name)
	return e, ok, nil
}

// UpdateResource replaces the value of an existing entry.
func (c *Context) UpdateResource(name, value string) error {
	content, err := c.Content()
	if err != nil {
		return err
	}
	if err := content.UpdateValue(name, value); err != nil {
		return err
	}
	c.log.Info("updated string resource", logging.Resource(name))
	return nil
}

// FileResult is the outcome of writing one file.
type FileResult struct {
	Path string
	// Written is set when the file was rewritten.
	Written bool
	// Changed is set when the written content differs from what was read.
	Changed bool
	// BackupID names the copy taken before writing.
	BackupID string
	Err      error
}

// WriteResult reports the two writes of UpdateResourceFiles separately.
type WriteResult struct {
	RC     FileResult
	Header FileResult
	// Defines counts the #define lines the header pass added.
	Defines header.Stats
}

// Err joins the errors of both writes.
func (r WriteResult) Err() error {
	return errors.Join(r.RC.Err, r.Header.Err)
}

// UpdateResourceFiles writes the resource script when the model changed and
// then merges the model into the paired header in place. The header pass
// runs even when the script write fails. A file without a paired header
// reports an empty Header.Path.
func (c *Context) UpdateResourceFiles() WriteResult {
	var res WriteResult
	res.RC.Path = c.file.Path()
	res.Header.Path = c.file.HeaderPath()

	content, err := c.Content()
	if err != nil {
		res.RC.Err = err
		return res
	}

	lines := content.Lines()
	if !slices.Equal(lines, c.doc.Lines) {
		res.RC = c.writeRC(lines)
	}

	if res.Header.Path == "" {
		c.log.Warn("no paired header, defines not written")
	} else {
		res.Header, res.Defines = c.writeHeader(content)
	}
	return res
}

func (c *Context) writeRC(lines []string) FileResult {
	path := c.file.Path()
	res := FileResult{Path: path}

	if c.opts.Backup {
		id, err := c.backup(path, backup.KindRC)
		if err != nil {
			res.Err = &model.IOError{Op: "backup rc", Path: path, Err: err}
			return res
		}
		res.BackupID = id
	}

	doc := *c.doc
	doc.Lines = lines
	if err := doc.WriteFile(path, filePerm(path)); err != nil {
		res.Err = &model.IOError{Op: "write rc", Path: path, Err: err}
		c.log.Error("failed to write resource script", logging.Err(err))
		return res
	}

	c.content.Commit()
	c.doc.Lines = lines
	res.Written = true
	res.Changed = true
	c.log.Info("wrote resource script", logging.Count(len(lines)))
	return res
}

func (c *Context) writeHeader(content *rcfile.Content) (FileResult, header.Stats) {
	path := c.file.HeaderPath()
	res := FileResult{Path: path}

	if c.opts.Backup {
		id, err := c.backup(path, backup.KindHeader)
		if err != nil {
			res.Err = &model.IOError{Op: "backup header", Path: path, Err: err}
			return res, header.Stats{}
		}
		res.BackupID = id
	}

	stats, err := header.New(c.opts.Header).WriteFile(content, path, path)
	if err != nil {
		res.Err = err
		c.log.Error("failed to write header", logging.Header(path), logging.Err(err))
		return res, stats
	}
	for _, e := range content.SortedByID() {
		if e.Define != "" {
			c.primary[e.Define] = e.ID
		}
	}
	res.Written = true
	res.Changed = stats.Changed()
	c.log.Info("wrote header", logging.Header(path),
		slog.Int("inserted", stats.Inserted), slog.Int("appended", stats.Appended))
	return res, stats
}

func (c *Context) backup(path string, kind backup.Kind) (string, error) {
	meta, err := backup.CreateBackup(path, backup.Options{
		Project:     c.file.ProjectName(),
		Kind:        kind,
		Description: "before rcstrings update",
	})
	if err != nil {
		return "", err
	}
	c.log.Debug("backed up file", logging.Path(path), slog.String("backup", meta.ID))
	return meta.ID, nil
}

func filePerm(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

// FindByName returns a context for the first file holding name. Files that
// cannot be loaded are logged and skipped.
func FindByName(files []model.ResourceFile, name string, opts Options) (*Context, model.StringEntry, error) {
	for _, f := range files {
		ctx := NewContext(f, opts)
		e, ok, err := ctx.GetStringResourceByName(name)
		if err != nil {
			ctx.log.Warn("skipping unreadable resource script", logging.Err(err))
			continue
		}
		if ok {
			return ctx, e, nil
		}
	}
	return nil, model.StringEntry{}, &model.NotFoundError{Name: name}
}
