// Package settings remembers per-solution choices between runs: the
// selected resource script, its project and the code replacement template.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/klauern/rcstrings/internal/replace"
	"github.com/klauern/rcstrings/internal/util"
)

const fileName = "settings.yaml"

// Solution holds the settings of one solution.
type Solution struct {
	// Project is the name of the project owning SelectedRC.
	Project string `yaml:"project,omitempty"`
	// SelectedRC is the path of the last resource script used.
	SelectedRC string `yaml:"selected_rc,omitempty"`
	// ReplaceWith is the code template, "{0}" standing for the resource name.
	ReplaceWith string `yaml:"replace_with,omitempty"`
	// IsReplacingWith enables code replacement after an add.
	IsReplacingWith bool `yaml:"is_replacing_with"`
}

// Template returns ReplaceWith, or the default template when it is empty.
func (s Solution) Template() string {
	return replace.TemplateOrDefault(s.ReplaceWith)
}

// Store is the settings file.
type Store struct {
	path      string
	Solutions map[string]Solution `yaml:"solutions"`
}

// FilePath returns the default settings file location.
func FilePath() string {
	return filepath.Join(util.RcstringsConfigPath(), fileName)
}

// Load reads the default settings file.
func Load() (*Store, error) {
	return LoadFromPath(FilePath())
}

// LoadFromPath reads settings from path. A missing file yields an empty store.
func LoadFromPath(path string) (*Store, error) {
	s := &Store{path: path, Solutions: make(map[string]Solution)}

	// #nosec G304 - path is built from the rcstrings home
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if s.Solutions == nil {
		s.Solutions = make(map[string]Solution)
	}
	return s, nil
}

// Path returns the file the store reads from and saves to.
func (s *Store) Path() string { return s.path }

// Get returns the settings of the solution identified by key.
func (s *Store) Get(key string) Solution {
	sol := s.Solutions[key]
	if sol.ReplaceWith == "" {
		sol.ReplaceWith = replace.DefaultTemplate
	}
	return sol
}

// Set replaces the settings of the solution identified by key.
func (s *Store) Set(key string, sol Solution) {
	s.Solutions[key] = sol
}

// Select records the resource script chosen for a solution.
func (s *Store) Select(key, rcPath, project string) {
	sol := s.Solutions[key]
	sol.SelectedRC = rcPath
	sol.Project = project
	s.Solutions[key] = sol
}

// Save writes the store back to its file.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	// #nosec G306 - settings file should be readable by user
	return os.WriteFile(s.path, data, 0o644)
}
