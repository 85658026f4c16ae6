package commands

import (
	"fmt"
	"io"

	"github.com/simonhull/firebird-suite/weaver/pkg/output"
	"github.com/simonhull/firebird-suite/weaver/pkg/userdata"
	"github.com/spf13/cobra"
)

// UserdataCmd generates the user-data template of a component
func UserdataCmd(app *App) *cobra.Command {
	var (
		outPath string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "userdata <component-id>",
		Short: "Generate the user-data template of a component",
		Long: `Expands every dependency of a component into the variables of the service
it consumes, using the services table of the configuration. Services missing
from the table use the "default" entry.

Example:
  weaver userdata PROJECT_1.WEBSITE.FRONTEND
  weaver userdata PROJECT_1.WEBSITE.FRONTEND --out frontend.env`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			gen := userdata.New(app.Config.Services)
			err = writeOutput(cmd, outPath, func(w io.Writer) error {
				return gen.Generate(cat, args[0], format, w)
			})
			if err != nil {
				return err
			}

			if !isStdout(outPath) {
				output.Success(fmt.Sprintf("User-data written to %s", outPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "stdout", "Output file, or stdout")
	cmd.Flags().StringVarP(&format, "format", "f", userdata.FormatFlat, "Output format (flat)")

	return cmd
}
