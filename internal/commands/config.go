package commands

import (
	"fmt"
	"os"

	"github.com/simonhull/firebird-suite/weaver/pkg/config"
	"github.com/simonhull/firebird-suite/weaver/pkg/output"
	"github.com/spf13/cobra"
)

// ConfigCmd groups configuration file commands
func ConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the weaver configuration file",
	}

	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd(app))

	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) > 0 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && force {
				output.Warn(fmt.Sprintf("Overwriting %s", path))
			}

			if err := config.Save(path, config.DefaultConfig(), force); err != nil {
				return err
			}

			output.Success(fmt.Sprintf("Created %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func configShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeYAML(cmd.OutOrStdout(), app.Config)
		},
	}
}
