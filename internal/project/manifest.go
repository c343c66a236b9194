// Package project finds the resource scripts of a solution and the headers
// each one includes.
//
// A solution is described by an rcstrings.toml manifest:
//
//	name = "Solution"
//
//	[[projects]]
//	name = "App"
//	dir = "app"
//	include_dirs = ["res", "../common"]
//	rc_files = ["app.rc"]
//
// Without a manifest the working directory is scanned as one project.
package project

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the decoded rcstrings.toml.
type Manifest struct {
	Name     string          `toml:"name"`
	Projects []ProjectConfig `toml:"projects"`
}

// ProjectConfig describes one project of the solution.
type ProjectConfig struct {
	Name string `toml:"name"`
	// Dir is relative to the manifest directory.
	Dir string `toml:"dir"`
	// IncludeDirs are relative to Dir.
	IncludeDirs []string `toml:"include_dirs"`
	// RCFiles are relative to Dir. When empty every .rc file under Dir is used.
	RCFiles []string `toml:"rc_files"`
}

// LoadManifest decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("manifest %s: unknown key %q", path, undecoded[0].String())
	}
	for i, p := range m.Projects {
		if p.Dir == "" {
			m.Projects[i].Dir = "."
		}
		if p.Name == "" {
			m.Projects[i].Name = filepath.Base(filepath.Join(filepath.Dir(path), m.Projects[i].Dir))
		}
	}
	if m.Name == "" {
		m.Name = filepath.Base(filepath.Dir(path))
	}
	return &m, nil
}
