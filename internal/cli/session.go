package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/rcstrings/internal/config"
	"github.com/klauern/rcstrings/internal/ids"
	"github.com/klauern/rcstrings/internal/logging"
	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/progress"
	"github.com/klauern/rcstrings/internal/project"
	"github.com/klauern/rcstrings/internal/resource"
	"github.com/klauern/rcstrings/internal/settings"
	"github.com/klauern/rcstrings/internal/textenc"
	"github.com/klauern/rcstrings/internal/ui"
	"github.com/klauern/rcstrings/internal/ui/tui"
	"github.com/klauern/rcstrings/internal/validation"
)

// errNoFiles is returned when the scan found no resource script.
var errNoFiles = errors.New("no resource scripts found; add an rcstrings.toml manifest or run inside a project directory")

// pickFile chooses among several scripts; replaced in tests.
var pickFile = func(files []model.ResourceFile, current string) (model.ResourceFile, bool, error) {
	if !ui.IsTerminal(os.Stdin) || !ui.IsTerminal(os.Stdout) {
		return model.ResourceFile{}, false, nil
	}
	res, err := tui.RunFilePicker(files, current)
	if err != nil {
		return model.ResourceFile{}, false, err
	}
	return res.File, res.Action == tui.FilePickerActionSelect, nil
}

// session is the state every string command starts from: configuration,
// the scanned solution and the remembered settings.
type session struct {
	cfg      *config.Config
	solution *project.Solution
	settings *settings.Store
}

func openSession(cmd *cli.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	sol, err := project.Scan(project.Options{
		ManifestPath:     cmd.String("manifest"),
		PrimaryHeader:    cfg.Headers.Primary,
		FallbackCodepage: cfg.Encoding.FallbackCodepage,
		Reporter:         progress.NewScanReporter(os.Stderr),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan solution: %w", err)
	}
	for _, w := range sol.Warnings {
		logging.Warn(w)
	}
	logging.Debug("scanned solution",
		logging.Project(sol.Name),
		logging.Count(len(sol.Files)))

	store, err := settings.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &session{cfg: cfg, solution: sol, settings: store}, nil
}

// loadConfig loads and validates the configuration and applies its color
// and id settings to the process.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := configureColors(cmd, cfg.Output.Color); err != nil {
		return nil, err
	}
	ids.Configure(cfg.Generator())
	ids.SetRandom(cfg.IDs.Random || cmd.Bool("random-id"))
	return cfg, nil
}

func (s *session) contextOptions(skipBackup bool) resource.Options {
	return resource.Options{
		Format: s.cfg.RCFormat(),
		Header: s.cfg.HeaderOptions(),
		Backup: s.cfg.Backup.Enabled && !skipBackup,
		Logger: logging.Default(),
	}
}

// resolveFile picks the script a command works on: the --file flag, the
// remembered selection, the only scanned script, or the interactive picker.
func (s *session) resolveFile(cmd *cli.Command) (model.ResourceFile, error) {
	if name := cmd.String("file"); name != "" {
		return s.fileByName(name, cmd.String("project"))
	}

	files := s.solution.Files
	if len(files) == 0 {
		return model.ResourceFile{}, errNoFiles
	}

	selected := s.settings.Get(s.solution.Key).SelectedRC
	if selected != "" {
		for _, f := range files {
			if f.Path() == selected {
				logging.Debug("using remembered resource script", logging.File(selected))
				return f, nil
			}
		}
		logging.Info("remembered resource script is no longer in the solution", logging.File(selected))
	}

	if len(files) == 1 {
		return files[0], nil
	}

	f, ok, err := pickFile(files, selected)
	if err != nil {
		return model.ResourceFile{}, fmt.Errorf("file picker failed: %w", err)
	}
	if !ok {
		return model.ResourceFile{}, fmt.Errorf("%d resource scripts found; choose one with --file", len(files))
	}
	return f, nil
}

// fileByName looks name up among the scanned scripts. A path outside the
// solution is accepted when it names an existing script.
func (s *session) fileByName(name, projectName string) (model.ResourceFile, error) {
	var matches []model.ResourceFile
	for _, f := range s.solution.Files {
		if f.Matches(name, projectName) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
	default:
		return model.ResourceFile{}, fmt.Errorf("%q matches %d resource scripts; pass a path or --project", name, len(matches))
	}

	result := validation.ValidateRCFile(name)
	if result.HasErrors() {
		return model.ResourceFile{}, fmt.Errorf("resource script %q is not part of the solution: %w", name, result.Error())
	}
	for _, w := range result.Warnings {
		logging.Warn(w)
	}

	path, err := filepath.Abs(name)
	if err != nil {
		return model.ResourceFile{}, err
	}
	doc, err := textenc.ReadFile(path, s.cfg.Encoding.FallbackCodepage)
	if err != nil {
		return model.ResourceFile{}, &model.IOError{Op: "read rc", Path: path, Err: err}
	}
	primary, siblings := project.ResolveHeaders(path, doc.Lines, nil, s.cfg.Headers.Primary)
	f := model.NewResourceFile(path, primary, siblings)
	f.SetProject(&model.Project{Name: projectName, Dir: filepath.Dir(path)})
	return f, nil
}

// remember stores the selected script for the solution.
func (s *session) remember(f model.ResourceFile) {
	s.settings.Select(s.solution.Key, f.Path(), f.ProjectName())
}

func (s *session) saveSettings() {
	if err := s.settings.Save(); err != nil {
		logging.Warn("failed to save settings", logging.Path(s.settings.Path()), logging.Err(err))
	}
}

// displayPath shows path relative to the working directory when shorter.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || len(rel) >= len(path) {
		return path
	}
	return rel
}
