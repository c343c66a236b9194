// Package cli provides the command-line interface for rcstrings.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/rcstrings/internal/logging"
	"github.com/klauern/rcstrings/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "rcstrings",
		Usage:   "Add and edit STRINGTABLE entries and keep resource.h in sync",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:    "manifest",
				Aliases: []string{"m"},
				Usage:   "Path to the rcstrings.toml solution manifest (default: ./rcstrings.toml)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("no-color") {
				ui.DisableColors()
			}
			if err := configureLogging(cmd); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			filesCommand(),
			listCommand(),
			addCommand(),
			editCommand(),
			syncHeaderCommand(),
			nextIDCommand(),
			exportCommand(),
			configCommand(),
			backupCommand(),
			versionCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureColors sets up color output from the config and CLI flags.
func configureColors(cmd *cli.Command, mode string) error {
	if cmd.Bool("no-color") {
		ui.DisableColors()
		return nil
	}
	return ui.ApplyColorMode(mode, os.Stdout)
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()
	opts.Level = logging.LevelFor(cmd.Bool("verbose"), cmd.Bool("debug"))
	opts.AddSource = cmd.Bool("debug")

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}
