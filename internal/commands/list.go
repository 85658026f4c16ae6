package commands

import (
	"fmt"

	"github.com/simonhull/firebird-suite/weaver/pkg/output"
	"github.com/spf13/cobra"
)

// ListCmd lists projects, applications and components
func ListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [project...]",
		Short: "List projects, applications and components",
		Long: `Loads the projects directory and prints every project with its
applications and their components, in declaration order.

Example:
  weaver list
  weaver list PROJECT_2 --projects ./projects`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			ids := args
			if len(ids) == 0 {
				ids = cat.ProjectIDs()
			}

			components := 0
			for _, id := range ids {
				project := cat.Project(id)
				if project == nil {
					return fmt.Errorf("project %s not found", id)
				}

				header := project.ID()
				if project.Team != "" || project.Domain != "" {
					header = fmt.Sprintf("%s (team: %s, domain: %s)", header, project.Team, project.Domain)
				}
				output.Header(header)
				output.Verbose(fmt.Sprintf("user %s:%s", project.User.Owner, project.User.Group))

				for _, name := range project.ApplicationNames() {
					application := project.Application(name)
					output.Info(application.ID())
					for _, comp := range application.ComponentList() {
						output.Step(comp.Name)
						components++
					}
				}
			}

			output.Success(fmt.Sprintf("%d projects, %d components", len(ids), components))
			return nil
		},
	}
}
