package commands

import (
	"fmt"
	"time"

	"github.com/simonhull/firebird-suite/weaver/pkg/output"
	"github.com/simonhull/firebird-suite/weaver/pkg/watcher"
	"github.com/spf13/cobra"
)

// WatchCmd re-runs check whenever the projects directory changes
func WatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Check the projects again on every change",
		Long: `Runs check, then watches the projects directory and runs it again,
on a freshly loaded graph, each time a YAML file or project directory changes.
Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			w, err := watcher.New(watcher.Config{
				Root:        app.Config.ProjectsPath,
				DebounceDur: time.Duration(app.Config.Watch.DebounceMillis) * time.Millisecond,
				Logger:      app.Logger,
			})
			if err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()

			onChange, err := w.Start()
			if err != nil {
				return err
			}

			report := func() {
				if err := runCheck(ctx, app); err != nil {
					output.Error(err.Error())
				}
			}

			report()
			output.Info(fmt.Sprintf("Watching %s (Ctrl+C to stop)", app.Config.ProjectsPath))

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-onChange:
					output.Step("Change detected, reloading")
					report()
				}
			}
		},
	}
}
