package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/rcstrings/internal/export"
	"github.com/klauern/rcstrings/internal/logging"
	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/resource"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write string tables as JSON, YAML or Markdown",
		Flags: append(fileFlags(),
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Export every resource script of the solution",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "Output format (json, yaml, markdown)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "no-metadata",
				Usage: "Leave out script paths, projects and headers",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "Do not indent JSON or YAML output",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			format, err := export.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			if len(s.solution.Files) == 0 {
				return errNoFiles
			}
			files := s.solution.Files
			if !cmd.Bool("all") {
				f, err := s.resolveFile(cmd)
				if err != nil {
					return err
				}
				files = []model.ResourceFile{f}
			}

			tables := make([]export.Table, 0, len(files))
			for _, f := range files {
				content, err := resource.NewContext(f, s.contextOptions(true)).Content()
				if err != nil {
					return err
				}
				tables = append(tables, export.Table{File: f, Entries: content.SortedByID()})
			}

			var w io.Writer = os.Stdout
			if out := cmd.String("output"); out != "" {
				// #nosec G304 - output path is chosen by the user
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer func() {
					if err := file.Close(); err != nil {
						logging.Warn("failed to close export file", logging.Path(out), logging.Err(err))
					}
				}()
				w = file
			}

			exporter := export.New(export.Options{
				Format:          format,
				Pretty:          !cmd.Bool("compact"),
				IncludeMetadata: !cmd.Bool("no-metadata"),
			})
			return exporter.Export(tables, w)
		},
	}
}
