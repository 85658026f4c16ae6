package commands

import (
	"fmt"
	"io"

	"github.com/simonhull/firebird-suite/weaver/pkg/catalog"
	"github.com/simonhull/firebird-suite/weaver/pkg/diagram"
	"github.com/simonhull/firebird-suite/weaver/pkg/output"
	"github.com/spf13/cobra"
)

// GraphCmd renders the diagram of a project
func GraphCmd(app *App) *cobra.Command {
	var (
		components []string
		outPath    string
		format     string
		title      string
	)

	cmd := &cobra.Command{
		Use:   "graph <project-id>",
		Short: "Render the dependency diagram of a project",
		Long: `Renders a project as a Graphviz diagram: one cluster per application,
one node per component and one edge per dependency, except hidden links.

Example:
  weaver graph PROJECT_2 | dot -Tsvg > project2.svg
  weaver graph PROJECT_2 --component PROJECT_2.WEBSITE_v1.BACKEND --out backend.dot
  weaver graph PROJECT_2 --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			filter, err := lookupComponents(cat, components)
			if err != nil {
				return err
			}

			if title == "" {
				title = app.Config.Graph.Title
			}
			graphTitle, err := diagram.ProjectTitle(title, args[0])
			if err != nil {
				return fmt.Errorf("rendering title: %w", err)
			}

			g := diagram.New(graphTitle)
			if err := g.AddProject(cat, args[0], filter...); err != nil {
				return err
			}
			output.Verbose(fmt.Sprintf("%d nodes, %d edges", len(g.Nodes()), len(g.Edges)))

			err = writeOutput(cmd, outPath, func(w io.Writer) error {
				switch format {
				case "dot":
					return g.WriteDOT(w)
				case "yaml":
					return writeYAML(w, g.Struct())
				default:
					return fmt.Errorf("unsupported graph format %q (use dot or yaml)", format)
				}
			})
			if err != nil {
				return err
			}

			if !isStdout(outPath) {
				output.Success(fmt.Sprintf("Diagram written to %s", outPath))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&components, "component", nil, "Only render these components (repeatable)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "Output file, or - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot or yaml")
	cmd.Flags().StringVar(&title, "title", "", "Title template (default from graph.title)")

	return cmd
}

func lookupComponents(cat *catalog.Catalog, ids []string) ([]*catalog.Component, error) {
	components := make([]*catalog.Component, 0, len(ids))
	for _, id := range ids {
		comp := cat.Component(id)
		if comp == nil {
			return nil, fmt.Errorf("component %s not found", id)
		}
		components = append(components, comp)
	}
	return components, nil
}
