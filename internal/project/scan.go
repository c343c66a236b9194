package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/textenc"
	"github.com/klauern/rcstrings/internal/tokenizer"
	"github.com/klauern/rcstrings/internal/util"
)

// DefaultPrimaryHeader is the header that receives new defines.
const DefaultPrimaryHeader = "resource.h"

// Reporter observes the per-file phase of a scan.
type Reporter interface {
	Start(total int)
	Step(path string)
	Done()
}

// Options configure Scan.
type Options struct {
	// WorkDir is where the default manifest is looked for. Defaults to the
	// current directory.
	WorkDir string
	// ManifestPath overrides the default manifest. A missing explicit
	// manifest is an error.
	ManifestPath string
	// PrimaryHeader is matched case-insensitively against include base names.
	PrimaryHeader    string
	FallbackCodepage int
	Reporter         Reporter
}

// Solution is the result of a scan.
type Solution struct {
	Name string
	// Key identifies the solution in the settings store.
	Key      string
	Projects []*model.Project
	Files    []model.ResourceFile
	// Warnings are non-fatal problems such as missing include directories.
	Warnings []string
}

// Scan enumerates the projects and resource scripts of a solution.
func Scan(opts Options) (*Solution, error) {
	workDir, err := absDir(opts.WorkDir)
	if err != nil {
		return nil, err
	}
	if opts.PrimaryHeader == "" {
		opts.PrimaryHeader = DefaultPrimaryHeader
	}

	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = util.ManifestPath(workDir)
		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			manifestPath = ""
		}
	}

	var m *Manifest
	baseDir := workDir
	sol := &Solution{Key: workDir}
	if manifestPath != "" {
		if manifestPath, err = filepath.Abs(manifestPath); err != nil {
			return nil, err
		}
		if m, err = LoadManifest(manifestPath); err != nil {
			return nil, err
		}
		baseDir = filepath.Dir(manifestPath)
		sol.Key = manifestPath
	} else {
		m = &Manifest{
			Name:     filepath.Base(workDir),
			Projects: []ProjectConfig{{Name: filepath.Base(workDir), Dir: "."}},
		}
	}
	sol.Name = m.Name

	type candidate struct {
		path    string
		project *model.Project
	}
	var candidates []candidate
	seen := make(map[string]bool)

	for _, pc := range m.Projects {
		p, warnings := resolveProject(pc, baseDir)
		sol.Warnings = append(sol.Warnings, warnings...)
		if p == nil {
			continue
		}
		sol.Projects = append(sol.Projects, p)

		rcFiles, warnings := rcFilesOf(pc, p.Dir)
		sol.Warnings = append(sol.Warnings, warnings...)
		for _, rc := range rcFiles {
			if seen[rc] {
				sol.Warnings = append(sol.Warnings, fmt.Sprintf("%s is listed by more than one project, keeping the first", rc))
				continue
			}
			seen[rc] = true
			candidates = append(candidates, candidate{path: rc, project: p})
		}
	}

	if opts.Reporter != nil {
		opts.Reporter.Start(len(candidates))
		defer opts.Reporter.Done()
	}
	for _, c := range candidates {
		doc, err := textenc.ReadFile(c.path, opts.FallbackCodepage)
		if opts.Reporter != nil {
			opts.Reporter.Step(c.path)
		}
		if err != nil {
			sol.Warnings = append(sol.Warnings, fmt.Sprintf("cannot read %s: %v", c.path, err))
			continue
		}
		primary, siblings := ResolveHeaders(c.path, doc.Lines, c.project.IncludeDirs, opts.PrimaryHeader)
		f := model.NewResourceFile(c.path, primary, siblings)
		f.SetProject(c.project)
		sol.Files = append(sol.Files, f)
	}
	return sol, nil
}

func absDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

// resolveProject makes the project directory absolute and keeps the
// include directories that exist.
func resolveProject(pc ProjectConfig, baseDir string) (*model.Project, []string) {
	var warnings []string
	dir := joinAbs(baseDir, pc.Dir)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, []string{fmt.Sprintf("project %s: directory %s does not exist", pc.Name, dir)}
	}

	p := &model.Project{Name: pc.Name, Dir: dir}
	for _, inc := range pc.IncludeDirs {
		abs := joinAbs(dir, inc)
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("project %s: include directory %s does not exist", pc.Name, abs))
			continue
		}
		if !slices.Contains(p.IncludeDirs, abs) {
			p.IncludeDirs = append(p.IncludeDirs, abs)
		}
	}
	return p, warnings
}

func rcFilesOf(pc ProjectConfig, dir string) ([]string, []string) {
	if len(pc.RCFiles) > 0 {
		var files, warnings []string
		for _, rc := range pc.RCFiles {
			abs := joinAbs(dir, rc)
			if info, err := os.Stat(abs); err != nil || !info.Mode().IsRegular() {
				warnings = append(warnings, fmt.Sprintf("project %s: rc file %s does not exist", pc.Name, abs))
				continue
			}
			files = append(files, abs)
		}
		return files, warnings
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".rc") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, []string{fmt.Sprintf("project %s: %v", pc.Name, err)}
	}
	return files, nil
}

func joinAbs(base, p string) string {
	p = filepath.FromSlash(toSlash(p))
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}

// toSlash turns Windows separators, escaped or not, into forward slashes.
func toSlash(p string) string {
	p = strings.ReplaceAll(p, `\\`, "/")
	return strings.ReplaceAll(p, `\`, "/")
}

// Includes returns the quoted #include targets of lines in order.
func Includes(lines []string) []string {
	var out []string
	for _, l := range lines {
		fields := tokenizer.Resource.Split(l)
		if len(fields) < 2 || fields[0] != "#include" || !tokenizer.Resource.IsQuoted(fields[1]) {
			continue
		}
		out = append(out, tokenizer.Resource.Unquote(fields[1]))
	}
	return out
}

// ResolveHeaders picks the primary header and the sibling headers of the
// resource script at rcPath. Each include is looked up in the script's
// directory first, then in includeDirs.
func ResolveHeaders(rcPath string, lines []string, includeDirs []string, primaryName string) (string, []string) {
	if primaryName == "" {
		primaryName = DefaultPrimaryHeader
	}
	dirs := append([]string{filepath.Dir(rcPath)}, includeDirs...)

	var resolved []string
	for _, inc := range Includes(lines) {
		if !isHeader(inc) {
			continue
		}
		if path := lookup(inc, dirs); path != "" && !slices.Contains(resolved, path) {
			resolved = append(resolved, path)
		}
	}
	if len(resolved) == 0 {
		return "", nil
	}

	primary := resolved[0]
	for _, path := range resolved {
		if strings.EqualFold(filepath.Base(path), primaryName) {
			primary = path
			break
		}
	}

	var siblings []string
	for _, path := range resolved {
		if path != primary {
			siblings = append(siblings, path)
		}
	}
	return primary, siblings
}

func isHeader(inc string) bool {
	switch strings.ToLower(filepath.Ext(inc)) {
	case ".h", ".hh", ".hpp", ".hxx":
		return true
	}
	return false
}

func lookup(inc string, dirs []string) string {
	rel := filepath.FromSlash(toSlash(inc))
	if filepath.IsAbs(rel) {
		if fileExists(rel) {
			return rel
		}
		return ""
	}
	for _, dir := range dirs {
		if path := filepath.Join(dir, rel); fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
