package backup

import (
	"fmt"
	"time"
)

// CleanupOptions configures backup cleanup behavior
type CleanupOptions struct {
	// MaxBackups limits the number of backups kept per source file (0 = unlimited)
	MaxBackups int

	// MaxAge is the maximum age of backups to keep (0 = unlimited)
	MaxAge time.Duration

	// KeepAtLeastOne keeps the newest backup of every source file
	KeepAtLeastOne bool

	// Project limits cleanup to one project (empty = all projects)
	Project string

	// DryRun previews what would be deleted without deleting
	DryRun bool
}

// DefaultCleanupOptions returns sensible defaults for cleanup
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{
		MaxBackups:     10,
		MaxAge:         30 * 24 * time.Hour,
		KeepAtLeastOne: true,
	}
}

// CleanupBackups removes backups past the count or age limits and returns
// the ids removed (or that would be removed in dry-run mode).
func CleanupBackups(opts CleanupOptions) ([]string, error) {
	return cleanupAt(opts, time.Now())
}

func cleanupAt(opts CleanupOptions, now time.Time) ([]string, error) {
	index, err := LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	groups := make(map[string][]Metadata)
	for _, b := range index.Backups {
		if opts.Project != "" && b.Project != opts.Project {
			continue
		}
		groups[b.SourcePath] = append(groups[b.SourcePath], b)
	}

	var toDelete []string
	for _, group := range groups {
		sortNewestFirst(group)
		var expired []string
		for i, b := range group {
			tooOld := opts.MaxAge > 0 && now.Sub(b.CreatedAt) > opts.MaxAge
			tooMany := opts.MaxBackups > 0 && i >= opts.MaxBackups
			if tooOld || tooMany {
				expired = append(expired, b.ID)
			}
		}
		if opts.KeepAtLeastOne && len(expired) == len(group) && len(expired) > 0 {
			expired = expired[1:]
		}
		toDelete = append(toDelete, expired...)
	}

	if opts.DryRun {
		return toDelete, nil
	}

	var deleted []string
	for _, id := range toDelete {
		if err := DeleteBackup(id); err != nil {
			return deleted, fmt.Errorf("failed to delete backup %q: %w", id, err)
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}

// Stats summarizes the backup index
type Stats struct {
	TotalBackups     int
	TotalSize        int64
	BackupsByProject map[string]int
	OldestBackup     time.Time
	NewestBackup     time.Time
}

// GetStats returns statistics about backups
func GetStats() (*Stats, error) {
	index, err := LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	stats := &Stats{
		TotalBackups:     len(index.Backups),
		BackupsByProject: make(map[string]int),
	}
	for _, b := range index.Backups {
		stats.TotalSize += b.Size
		stats.BackupsByProject[b.Project]++
		if stats.OldestBackup.IsZero() || b.CreatedAt.Before(stats.OldestBackup) {
			stats.OldestBackup = b.CreatedAt
		}
		if b.CreatedAt.After(stats.NewestBackup) {
			stats.NewestBackup = b.CreatedAt
		}
	}
	return stats, nil
}
