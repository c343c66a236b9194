// Package backup keeps copies of resource scripts and headers taken before
// they are rewritten.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauern/rcstrings/internal/util"
)

const (
	// BackupDirPerm is the permission for backup directories (rwxr-x---)
	BackupDirPerm = 0o750
	// BackupFilePerm is the permission for backup files (rw-r-----)
	BackupFilePerm = 0o640

	defaultProject = "default"
)

// Kind tells resource scripts and headers apart
type Kind string

const (
	KindRC     Kind = "rc"
	KindHeader Kind = "header"
)

// Options configures one backup
type Options struct {
	Project     string
	Kind        Kind
	Description string
}

// CreateBackup copies sourcePath into the backups directory of its project
func CreateBackup(sourcePath string, opts Options) (*Metadata, error) {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source path %q: %w", sourcePath, err)
	}
	if sourceInfo.IsDir() {
		return nil, fmt.Errorf("%q is a directory", sourcePath)
	}

	// #nosec G304 - sourcePath is a scanned resource file
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %q: %w", sourcePath, err)
	}
	hashStr := hashOf(content)

	project := opts.Project
	if project == "" {
		project = defaultProject
	}
	projectDir := filepath.Join(util.RcstringsBackupsPath(), safeName(project))
	if err := os.MkdirAll(projectDir, BackupDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := time.Now()
	backupID := now.Format("20060102-150405-") + hashStr[:8]
	backupPath := filepath.Join(projectDir, backupID+"-"+filepath.Base(sourcePath))

	if err := os.WriteFile(backupPath, content, BackupFilePerm); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	metadata := &Metadata{
		ID:          backupID,
		SourcePath:  sourcePath,
		BackupPath:  backupPath,
		Project:     project,
		Kind:        opts.Kind,
		CreatedAt:   now,
		ModifiedAt:  sourceInfo.ModTime(),
		Hash:        hashStr,
		Size:        sourceInfo.Size(),
		Description: opts.Description,
	}

	index, err := LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}
	if err := index.AddBackup(*metadata); err != nil {
		return nil, fmt.Errorf("failed to add backup to index: %w", err)
	}
	return metadata, nil
}

// Get returns the metadata of one backup
func Get(backupID string) (Metadata, error) {
	index, err := LoadIndex()
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to load backup index: %w", err)
	}
	metadata, ok := index.Backups[backupID]
	if !ok {
		return Metadata{}, fmt.Errorf("backup %q not found", backupID)
	}
	return metadata, nil
}

// RestoreBackup writes a verified backup to targetPath, or back to its
// source when targetPath is empty. It returns the path written.
func RestoreBackup(backupID, targetPath string) (string, error) {
	metadata, err := Get(backupID)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(metadata.BackupPath)
	if err != nil {
		return "", fmt.Errorf("failed to read backup file: %w", err)
	}
	if hashOf(content) != metadata.Hash {
		return "", fmt.Errorf("backup file corrupted: hash mismatch")
	}

	if targetPath == "" {
		targetPath = metadata.SourcePath
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), BackupDirPerm); err != nil {
		return "", fmt.Errorf("failed to create target directory: %w", err)
	}
	// #nosec G306 - restored sources keep ordinary source permissions
	if err := os.WriteFile(targetPath, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write target file: %w", err)
	}
	return targetPath, nil
}

// ListBackups returns all backups newest first, optionally for one project
func ListBackups(project string) ([]Metadata, error) {
	index, err := LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	backups := index.ListBackups()
	if project == "" {
		return backups, nil
	}
	filtered := make([]Metadata, 0, len(backups))
	for _, b := range backups {
		if b.Project == project {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// History returns the backups of one source file, newest first
func History(sourcePath string) ([]Metadata, error) {
	index, err := LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	var history []Metadata
	for _, b := range index.Backups {
		if b.SourcePath == sourcePath {
			history = append(history, b)
		}
	}
	sortNewestFirst(history)
	return history, nil
}

// DeleteBackup removes a backup file and its index entry
func DeleteBackup(backupID string) error {
	index, err := LoadIndex()
	if err != nil {
		return fmt.Errorf("failed to load backup index: %w", err)
	}
	metadata, ok := index.Backups[backupID]
	if !ok {
		return fmt.Errorf("backup %q not found", backupID)
	}

	if err := os.Remove(metadata.BackupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete backup file: %w", err)
	}
	if err := index.RemoveBackup(backupID); err != nil {
		return fmt.Errorf("failed to remove backup from index: %w", err)
	}
	return nil
}

// VerifyBackup checks that a backup file still matches its hash
func VerifyBackup(backupID string) (err error) {
	metadata, err := Get(backupID)
	if err != nil {
		return err
	}

	file, err := os.Open(metadata.BackupPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("backup file missing: %s", metadata.BackupPath)
	}
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close backup file: %w", closeErr)
		}
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}
	if got := hex.EncodeToString(hash.Sum(nil)); got != metadata.Hash {
		return fmt.Errorf("backup file corrupted: hash mismatch (expected %s, got %s)", metadata.Hash, got)
	}
	return nil
}

func hashOf(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// safeName keeps a project name usable as one path element
func safeName(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			out[i] = '_'
		}
	}
	return string(out)
}
