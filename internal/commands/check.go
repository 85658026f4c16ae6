package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/simonhull/firebird-suite/weaver/pkg/catalog"
	"github.com/simonhull/firebird-suite/weaver/pkg/output"
	"github.com/spf13/cobra"
)

// CheckCmd loads the projects and resolves every declared dependency
func CheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that every dependency resolves",
		Long: `Loads the projects directory and resolves every declared dependency,
reporting each reference that does not name a known component.
Exits non-zero when anything fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), app)
		},
	}
}

// runCheck loads a fresh catalog and reports its resolution errors
func runCheck(ctx context.Context, app *App) error {
	cat, err := app.loadCatalog(ctx)
	if err != nil {
		return err
	}

	err = cat.Resolve()
	if err == nil {
		output.Success(fmt.Sprintf("%d projects, %d components, all dependencies resolved",
			len(cat.ProjectIDs()), cat.Len()))
		return nil
	}

	var resErrs catalog.ResolutionErrors
	if !errors.As(err, &resErrs) {
		return err
	}
	for _, depErr := range resErrs {
		output.Error(depErr.Error())
	}
	return fmt.Errorf("%d unresolved dependencies", len(resErrs))
}
