package backup

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/klauern/rcstrings/internal/util"
)

// Metadata describes one saved copy of a resource script or header
type Metadata struct {
	ID          string    `json:"id"`          // Timestamp plus content hash prefix
	SourcePath  string    `json:"source_path"` // File that was copied
	BackupPath  string    `json:"backup_path"` // Where the copy lives
	Project     string    `json:"project"`     // Project owning the file
	Kind        Kind      `json:"kind"`        // rc or header
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"` // Source modification time when copied
	Hash        string    `json:"hash"`        // SHA256 of the content
	Size        int64     `json:"size"`
	Description string    `json:"description,omitempty"`
}

// Index lists every backup by id
type Index struct {
	Version string              `json:"version"`
	Updated time.Time           `json:"updated"`
	Backups map[string]Metadata `json:"backups"`
}

const (
	// IndexVersion is the current version of the backup index format
	IndexVersion = "1.0"
	// IndexFilename is the name of the index file
	IndexFilename = "index.json"
)

func indexPath() string {
	return filepath.Join(util.RcstringsMetadataPath(), IndexFilename)
}

// LoadIndex loads the backup index from disk, or an empty one when none exists
func LoadIndex() (*Index, error) {
	// #nosec G304 - path is built from the rcstrings home
	data, err := os.ReadFile(indexPath())
	if os.IsNotExist(err) {
		return &Index{Version: IndexVersion, Updated: time.Now(), Backups: make(map[string]Metadata)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse index file: %w", err)
	}
	if index.Backups == nil {
		index.Backups = make(map[string]Metadata)
	}
	return &index, nil
}

// SaveIndex writes the index to disk
func SaveIndex(index *Index) error {
	if err := os.MkdirAll(util.RcstringsMetadataPath(), BackupDirPerm); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	index.Updated = time.Now()
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	// #nosec G306 - index.json is metadata and can be group-readable
	if err := os.WriteFile(indexPath(), data, BackupFilePerm); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

// AddBackup records metadata and saves the index
func (idx *Index) AddBackup(metadata Metadata) error {
	if idx.Backups == nil {
		idx.Backups = make(map[string]Metadata)
	}
	idx.Backups[metadata.ID] = metadata
	return SaveIndex(idx)
}

// RemoveBackup forgets a backup and saves the index
func (idx *Index) RemoveBackup(id string) error {
	delete(idx.Backups, id)
	return SaveIndex(idx)
}

// ListBackups returns all backups, newest first
func (idx *Index) ListBackups() []Metadata {
	backups := make([]Metadata, 0, len(idx.Backups))
	for _, b := range idx.Backups {
		backups = append(backups, b)
	}
	sortNewestFirst(backups)
	return backups
}

func sortNewestFirst(backups []Metadata) {
	slices.SortFunc(backups, func(a, b Metadata) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
