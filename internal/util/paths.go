package util

import (
	"os"
	"path/filepath"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// RcstringsConfigPath returns the rcstrings home directory.
// RCSTRINGS_HOME overrides the default ~/.rcstrings location.
func RcstringsConfigPath() string {
	if v := os.Getenv("RCSTRINGS_HOME"); v != "" {
		return v
	}
	return filepath.Join(HomeDir(), ".rcstrings")
}

// RcstringsBackupsPath returns the directory holding file backups
func RcstringsBackupsPath() string {
	return filepath.Join(RcstringsConfigPath(), "backups")
}

// RcstringsMetadataPath returns the directory holding the backup index
func RcstringsMetadataPath() string {
	return filepath.Join(RcstringsConfigPath(), "metadata")
}

// ManifestPath returns the default project manifest for a working directory
func ManifestPath(workDir string) string {
	return filepath.Join(workDir, "rcstrings.toml")
}
