package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/klauern/rcstrings/internal/backup"
	"github.com/klauern/rcstrings/internal/ui"
	"github.com/klauern/rcstrings/internal/ui/tui"
)

// runBackupList shows the interactive backup list; replaced in tests.
var runBackupList = tui.RunBackupList

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Manage the copies taken before resource scripts and headers are rewritten",
		Commands: []*cli.Command{
			backupListCommand(),
			backupRestoreCommand(),
			backupVerifyCommand(),
			backupDeleteCommand(),
			backupCleanCommand(),
			backupStatsCommand(),
		},
	}
}

func backupListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List backups, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"p"},
				Usage:   "Only list backups of this project",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Only list backups of this file",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Browse backups and restore, delete or verify one",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var (
				backups []backup.Metadata
				err     error
			)
			if src := cmd.String("source"); src != "" {
				backups, err = backup.History(absPath(src))
			} else {
				backups, err = backup.ListBackups(cmd.String("project"))
			}
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Println("No backups found")
				return nil
			}

			if cmd.Bool("interactive") {
				return browseBackups(backups)
			}

			now := time.Now()
			fmt.Println(ui.Header(fmt.Sprintf("%-24s  %-14s %-6s %-10s %8s  %s", "ID", "PROJECT", "KIND", "CREATED", "SIZE", "SOURCE")))
			for _, b := range backups {
				fmt.Printf("%-24s  %-14s %-6s %-10s %8s  %s\n",
					b.ID,
					b.Project,
					ui.Title(string(b.Kind)),
					humanize.RelTime(b.CreatedAt, now, "ago", "from now"),
					humanize.IBytes(uint64(max(b.Size, 0))), // #nosec G115 - clamped to non-negative
					displayPath(b.SourcePath))
			}
			return nil
		},
	}
}

func browseBackups(backups []backup.Metadata) error {
	res, err := runBackupList(backups)
	if err != nil {
		return fmt.Errorf("backup list failed: %w", err)
	}
	switch res.Action {
	case tui.ActionRestore:
		return restoreBackup(res.BackupID, "")
	case tui.ActionDelete:
		return deleteBackup(res.BackupID)
	case tui.ActionVerify:
		return verifyBackup(res.BackupID)
	}
	return nil
}

func backupRestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore a backup over its source file or to another path",
		UsageText: "rcstrings backup restore [--to PATH] <backup-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "to",
				Usage: "Write the backup here instead of its source path",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("restore requires exactly 1 argument: <backup-id>")
			}
			to := cmd.String("to")
			if to != "" {
				to = absPath(to)
			}
			return restoreBackup(cmd.Args().First(), to)
		},
	}
}

func restoreBackup(id, to string) error {
	path, err := backup.RestoreBackup(id, to)
	if err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	fmt.Println(ui.StatusSuccess(fmt.Sprintf("restored %s to %s", id, displayPath(path))))
	return nil
}

func backupVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check that a backup still matches its recorded hash",
		UsageText: "rcstrings backup verify <backup-id>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("verify requires exactly 1 argument: <backup-id>")
			}
			return verifyBackup(cmd.Args().First())
		},
	}
}

func verifyBackup(id string) error {
	if err := backup.VerifyBackup(id); err != nil {
		return err
	}
	fmt.Println(ui.StatusSuccess(fmt.Sprintf("backup %s is intact", id)))
	return nil
}

func backupDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one backup",
		UsageText: "rcstrings backup delete <backup-id>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("delete requires exactly 1 argument: <backup-id>")
			}
			return deleteBackup(cmd.Args().First())
		},
	}
}

func deleteBackup(id string) error {
	if err := backup.DeleteBackup(id); err != nil {
		return err
	}
	fmt.Println(ui.StatusSuccess("deleted backup " + id))
	return nil
}

func backupCleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove backups beyond the retention limits",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-backups",
				Usage: "Backups to keep per file (default from config)",
			},
			&cli.DurationFlag{
				Name:  "max-age",
				Usage: "Remove backups older than this, e.g. 720h (default from config)",
			},
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"p"},
				Usage:   "Only clean backups of this project",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Show what would be removed",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts := backup.CleanupOptions{
				MaxBackups:     cfg.Backup.MaxBackups,
				MaxAge:         cfg.Backup.MaxAge,
				KeepAtLeastOne: true,
				Project:        cmd.String("project"),
				DryRun:         cmd.Bool("dry-run"),
			}
			if cmd.IsSet("max-backups") {
				opts.MaxBackups = int(cmd.Int("max-backups"))
			}
			if cmd.IsSet("max-age") {
				opts.MaxAge = cmd.Duration("max-age")
			}

			removed, err := backup.CleanupBackups(opts)
			if err != nil {
				return err
			}
			sort.Strings(removed)
			verb := "removed"
			if opts.DryRun {
				verb = "would remove"
			}
			for _, id := range removed {
				fmt.Println(ui.Dim("  " + id))
			}
			fmt.Println(ui.StatusSuccess(fmt.Sprintf("%s %d backup(s)", verb, len(removed))))
			return nil
		},
	}
}

func backupStatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Summarize stored backups",
		Action: func(_ context.Context, _ *cli.Command) error {
			stats, err := backup.GetStats()
			if err != nil {
				return err
			}
			fmt.Printf("%s %d (%s)\n", ui.Header("Backups:"), stats.TotalBackups,
				humanize.IBytes(uint64(max(stats.TotalSize, 0)))) // #nosec G115 - clamped to non-negative
			if stats.TotalBackups == 0 {
				return nil
			}
			fmt.Printf("  oldest: %s\n", humanize.Time(stats.OldestBackup))
			fmt.Printf("  newest: %s\n", humanize.Time(stats.NewestBackup))

			projects := make([]string, 0, len(stats.BackupsByProject))
			for p := range stats.BackupsByProject {
				projects = append(projects, p)
			}
			sort.Strings(projects)
			for _, p := range projects {
				fmt.Printf("  %s: %d\n", p, stats.BackupsByProject[p])
			}
			return nil
		},
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
