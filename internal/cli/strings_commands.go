package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/rcstrings/internal/backup"
	"github.com/klauern/rcstrings/internal/escape"
	"github.com/klauern/rcstrings/internal/logging"
	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/replace"
	"github.com/klauern/rcstrings/internal/resource"
	"github.com/klauern/rcstrings/internal/similarity"
	"github.com/klauern/rcstrings/internal/ui"
	"github.com/klauern/rcstrings/internal/validation"
)

func fileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Resource script to use (path or file name)",
		},
		&cli.StringFlag{
			Name:    "project",
			Aliases: []string{"p"},
			Usage:   "Project owning --file, when several scripts share a name",
		},
	}
}

func filesCommand() *cli.Command {
	return &cli.Command{
		Name:  "files",
		Usage: "List the resource scripts of the solution",
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			if len(s.solution.Files) == 0 {
				return errNoFiles
			}

			selected := s.settings.Get(s.solution.Key).SelectedRC
			fmt.Println(ui.Header(fmt.Sprintf("Solution %s", s.solution.Name)))
			for _, f := range s.solution.Files {
				mark := " "
				if f.Path() == selected {
					mark = ui.Info("*")
				}
				count := "?"
				content, err := resource.NewContext(f, s.contextOptions(true)).Content()
				if err != nil {
					logging.Warn("cannot read resource script", logging.File(f.Path()), logging.Err(err))
				} else {
					count = fmt.Sprintf("%d", content.Len())
				}
				fmt.Printf("%s %s %s\n", mark, describeFile(f), ui.Dim(count+" string(s)"))
			}
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the string resources of a resource script in id order",
		Flags:   fileFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			f, err := s.resolveFile(cmd)
			if err != nil {
				return err
			}
			content, err := resource.NewContext(f, s.contextOptions(true)).Content()
			if err != nil {
				return err
			}

			entries := content.SortedByID()
			fmt.Println(ui.Header(fmt.Sprintf("%s: %d string(s)", describeFile(f), len(entries))))
			for _, e := range entries {
				line := fmt.Sprintf("%6d  %-32s \"%s\"", e.ID, e.Name, e.Value)
				if e.HasEmptyFields() {
					line += ui.Dim(" (defined elsewhere)")
				}
				fmt.Println(line)
			}
			if n := len(content.Unresolved()); n > 0 {
				fmt.Println(ui.StatusWarning(fmt.Sprintf("%d entry line(s) without a known id were skipped", n)))
			}
			return nil
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a string resource and its #define",
		UsageText: "rcstrings add [options] <name> <value>",
		Description: `Add a STRINGTABLE entry to a resource script and the matching #define
   to its paired header. The value is escaped for the resource compiler
   unless --raw is given. Without --id the next free id is used.
   Leading and trailing whitespace of the value is trimmed; put the
   arguments after -- to keep them verbatim.

   Examples:
     rcstrings add IDS_GREETING "Hello, world"
     rcstrings add --id 2001 IDS_TITLE "Main window"
     rcstrings add -- IDS_PROMPT "Name: "
     rcstrings add --replace-in main.cpp --selection '"Hello"' \
       --template 'LoadStringW(hInst, {0}, buf, 256)' IDS_HELLO Hello`,
		Flags: append(fileFlags(),
			&cli.IntFlag{
				Name:  "id",
				Usage: "Explicit id for the new entry",
			},
			&cli.BoolFlag{
				Name:  "random-id",
				Usage: "Draw a random free id instead of max+1",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Write the value as given, without escaping",
			},
			&cli.BoolFlag{
				Name:  "skip-backup",
				Usage: "Skip the backup taken before files are rewritten",
			},
			&cli.StringFlag{
				Name:  "replace-in",
				Usage: "Source file where --selection is replaced with code using the new name",
			},
			&cli.StringFlag{
				Name:  "selection",
				Usage: "Text in --replace-in to replace",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "Replacement code, {0} standing for the resource name (remembered per solution)",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 2 {
				return errors.New("add requires exactly 2 arguments: <name> <value>")
			}
			name, value := args.Get(0), args.Get(1)

			var id *int
			if cmd.IsSet("id") {
				v := int(cmd.Int("id"))
				id = &v
			}
			result := validation.ValidateAdd(name, value, id)
			if result.HasErrors() {
				return result.Error()
			}
			printWarnings(result)

			replaceIn := cmd.String("replace-in")
			if replaceIn != "" {
				if cmd.String("selection") == "" {
					return errors.New("--replace-in requires --selection")
				}
				if err := validation.ValidateFile(replaceIn, "replace-in"); err != nil {
					return err
				}
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			f, err := s.resolveFile(cmd)
			if err != nil {
				return err
			}
			if err := validation.ValidateWritable(f.Path()); err != nil {
				return err
			}

			if !cmd.Bool("raw") {
				value = escape.Format(value)
			}

			rc := resource.NewContext(f, s.contextOptions(cmd.Bool("skip-backup")))
			if id != nil {
				err = rc.AddResource(value, name, *id)
			} else {
				var newID int
				newID, err = rc.AddNewResource(value, name)
				id = &newID
			}
			if err != nil {
				return err
			}

			res := rc.UpdateResourceFiles()
			writeErr := printWriteResult(res)
			if res.RC.Written {
				fmt.Println(ui.StatusSuccess(fmt.Sprintf("added %s = %d", name, *id)))
				s.cleanupBackups(f)
			}
			if writeErr != nil {
				return writeErr
			}

			s.remember(f)
			if replaceIn != "" {
				if err := s.replaceSelection(cmd, replaceIn, name); err != nil {
					s.saveSettings()
					return err
				}
			}
			s.saveSettings()
			return nil
		},
	}
}

// replaceSelection swaps the selected text in a source file for code that
// loads the new resource.
func (s *session) replaceSelection(cmd *cli.Command, path, name string) error {
	sol := s.settings.Get(s.solution.Key)
	if cmd.IsSet("template") {
		sol.ReplaceWith = cmd.String("template")
	}
	sol.IsReplacingWith = true
	s.settings.Set(s.solution.Key, sol)

	code := replace.Format(sol.Template(), name)
	if err := replace.InFile(path, cmd.String("selection"), code, s.cfg.Encoding.FallbackCodepage); err != nil {
		return fmt.Errorf("failed to replace selection: %w", err)
	}
	fmt.Println(ui.StatusSuccess(fmt.Sprintf("replaced selection in %s with %s", displayPath(path), code)))
	return nil
}

// cleanupBackups applies the retention policy to the file's project.
func (s *session) cleanupBackups(f model.ResourceFile) {
	if !s.cfg.Backup.Enabled {
		return
	}
	deleted, err := backup.CleanupBackups(backup.CleanupOptions{
		MaxBackups:     s.cfg.Backup.MaxBackups,
		MaxAge:         s.cfg.Backup.MaxAge,
		KeepAtLeastOne: true,
		Project:        f.ProjectName(),
	})
	if err != nil {
		logging.Warn("backup cleanup failed", logging.Err(err))
		return
	}
	if len(deleted) > 0 {
		logging.Info("removed old backups", logging.Count(len(deleted)))
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change the value of an existing string resource",
		UsageText: "rcstrings edit [options] <name> <value>",
		Description: `Find the named entry in the resource scripts of the solution and
   replace its value. With --file only that script is searched.`,
		Flags: append(fileFlags(),
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Write the value as given, without escaping",
			},
			&cli.BoolFlag{
				Name:  "skip-backup",
				Usage: "Skip the backup taken before files are rewritten",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 2 {
				return errors.New("edit requires exactly 2 arguments: <name> <value>")
			}
			name, value := args.Get(0), args.Get(1)
			if err := validation.ValidateName(name); err != nil {
				return err
			}
			if !cmd.Bool("raw") {
				value = escape.Format(value)
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			files := s.solution.Files
			if cmd.String("file") != "" {
				f, err := s.resolveFile(cmd)
				if err != nil {
					return err
				}
				files = []model.ResourceFile{f}
			}

			opts := s.contextOptions(cmd.Bool("skip-backup"))
			rc, e, err := resource.FindByName(files, name, opts)
			if err != nil {
				return withSuggestions(err, files, name, opts)
			}
			if e.Value == value {
				fmt.Println(ui.StatusSkipped(fmt.Sprintf("%s already has that value", name)))
				return nil
			}
			if err := rc.UpdateResource(name, value); err != nil {
				return err
			}

			res := rc.UpdateResourceFiles()
			if err := printWriteResult(res); err != nil {
				return err
			}
			s.cleanupBackups(rc.File())
			fmt.Println(ui.StatusSuccess(fmt.Sprintf("updated %s (%d)", name, e.ID)))
			return nil
		},
	}
}

func syncHeaderCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync-header",
		Usage: "Add missing #define lines to the paired header",
		Description: `Merge every string resource of the script into its paired header
   without changing the script. Existing lines are left untouched.`,
		Flags: append(fileFlags(),
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Synchronize every resource script of the solution",
			},
			&cli.BoolFlag{
				Name:  "skip-backup",
				Usage: "Skip the backup taken before files are rewritten",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			var files []model.ResourceFile
			if cmd.Bool("all") {
				files = s.solution.Files
				if len(files) == 0 {
					return errNoFiles
				}
			} else {
				f, err := s.resolveFile(cmd)
				if err != nil {
					return err
				}
				files = []model.ResourceFile{f}
			}

			var errs []error
			for _, f := range files {
				if f.HeaderPath() == "" {
					fmt.Println(ui.StatusSkipped(describeFile(f)))
					continue
				}
				res := resource.NewContext(f, s.contextOptions(cmd.Bool("skip-backup"))).UpdateResourceFiles()
				if err := printWriteResult(res); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

func nextIDCommand() *cli.Command {
	return &cli.Command{
		Name:  "next-id",
		Usage: "Print the id the next added string resource would get",
		Flags: append(fileFlags(),
			&cli.BoolFlag{
				Name:  "random-id",
				Usage: "Draw a random free id instead of max+1",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			f, err := s.resolveFile(cmd)
			if err != nil {
				return err
			}
			id, err := resource.NewContext(f, s.contextOptions(true)).NextID()
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
}

// withSuggestions names the closest existing resources when a lookup fails.
func withSuggestions(err error, files []model.ResourceFile, name string, opts resource.Options) error {
	var nf *model.NotFoundError
	if !errors.As(err, &nf) {
		return err
	}
	var names []string
	for _, f := range files {
		content, cerr := resource.NewContext(f, opts).Content()
		if cerr != nil {
			continue
		}
		names = append(names, content.Names()...)
	}
	matches := similarity.NewMatcher(similarity.DefaultConfig()).Suggest(name, names)
	if len(matches) == 0 {
		return err
	}
	hints := make([]string, len(matches))
	for i, m := range matches {
		hints[i] = m.Name
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(hints, ", "))
}
