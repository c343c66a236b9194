package model

import (
	"path/filepath"
	"strings"
)

// Project is the originating project of a resource file.
type Project struct {
	Name string `json:"name" toml:"name"`
	// Dir is the absolute project directory.
	Dir string `json:"dir" toml:"dir"`
	// IncludeDirs are the existing absolute additional include directories.
	IncludeDirs []string `json:"include_dirs,omitempty" toml:"include_dirs"`
}

// ResourceFile identifies a physical .rc file and its companion headers.
type ResourceFile struct {
	path           string
	headerPath     string
	siblingHeaders []string
	project        *Project
}

// NewResourceFile creates a resource file. headerPath is the already
// resolved companion header, siblings are other headers the .rc includes.
func NewResourceFile(path, headerPath string, siblings []string) ResourceFile {
	return ResourceFile{
		path:           path,
		headerPath:     headerPath,
		siblingHeaders: append([]string(nil), siblings...),
	}
}

// Path returns the .rc file path.
func (f ResourceFile) Path() string { return f.path }

// FileName returns the base name of the .rc file.
func (f ResourceFile) FileName() string { return filepath.Base(f.path) }

// HeaderPath returns the paired header path, or "" when none was resolved.
func (f ResourceFile) HeaderPath() string { return f.headerPath }

// SiblingHeaders returns the other included headers.
func (f ResourceFile) SiblingHeaders() []string {
	return append([]string(nil), f.siblingHeaders...)
}

// Project returns the owning project, or nil before it is linked.
func (f ResourceFile) Project() *Project { return f.project }

// ProjectName returns the owning project's name, or "" when unlinked.
func (f ResourceFile) ProjectName() string {
	if f.project == nil {
		return ""
	}
	return f.project.Name
}

// SetProject links the file to its project.
func (f *ResourceFile) SetProject(p *Project) { f.project = p }

// Matches reports whether the file has the given path or base name and,
// when projectName is set, belongs to that project.
func (f ResourceFile) Matches(nameOrPath, projectName string) bool {
	if projectName != "" && f.ProjectName() != projectName {
		return false
	}
	if filepath.Clean(nameOrPath) == filepath.Clean(f.path) {
		return true
	}
	return strings.EqualFold(filepath.Base(nameOrPath), f.FileName())
}
