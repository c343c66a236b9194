package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/rcstrings/internal/config"
	"github.com/klauern/rcstrings/internal/settings"
	"github.com/klauern/rcstrings/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or create the rcstrings configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					data, err := yaml.Marshal(cfg)
					if err != nil {
						return fmt.Errorf("failed to encode config: %w", err)
					}

					source := config.FilePath()
					if !config.Exists() {
						source += " (not created, showing defaults)"
					}
					fmt.Println(ui.Header("Configuration: ") + source)
					fmt.Println(ui.Dim("Settings: " + settings.FilePath()))
					fmt.Println()
					fmt.Print(string(data))
					return nil
				},
			},
			{
				Name:  "init",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing configuration file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if config.Exists() && !cmd.Bool("force") {
						return fmt.Errorf("%s already exists (use --force to overwrite)", config.FilePath())
					}
					if err := config.Default().Save(); err != nil {
						return fmt.Errorf("failed to write config: %w", err)
					}
					fmt.Println(ui.StatusSuccess("wrote " + config.FilePath()))
					return nil
				},
			},
		},
	}
}
