package commands

import (
	"fmt"

	"github.com/simonhull/firebird-suite/weaver/pkg/output"
	"github.com/spf13/cobra"
)

// ShowCmd prints the parents and children of one component
func ShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <component-id>",
		Short: "Show the dependencies of a component",
		Long: `Prints the components a component depends on, with the service consumed
from each, and the components depending on it.

Example:
  weaver show PROJECT_1.WEBSITE.BACKEND`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			comp := cat.Component(args[0])
			if comp == nil {
				return fmt.Errorf("component %s not found", args[0])
			}

			output.Header(comp.ID())
			project := comp.Project()
			output.Verbose(fmt.Sprintf("project %s, team %q, domain %q", project.ID(), project.Team, project.Domain))

			links, err := cat.ParentLinks(comp)
			if err != nil {
				return err
			}

			output.Info(fmt.Sprintf("Parents (%d)", len(links)))
			for _, link := range links {
				output.Step(fmt.Sprintf("%s (%s)", link.Component.ID(), link.Service))
			}

			children := cat.Children(comp)
			output.Info(fmt.Sprintf("Children (%d)", len(children)))
			for _, child := range children {
				output.Step(child.ID())
			}

			return nil
		},
	}
}
