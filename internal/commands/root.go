package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/simonhull/firebird-suite/weaver"
	"github.com/simonhull/firebird-suite/weaver/pkg/catalog"
	"github.com/simonhull/firebird-suite/weaver/pkg/config"
	"github.com/simonhull/firebird-suite/weaver/pkg/loader"
	"github.com/simonhull/firebird-suite/weaver/pkg/logger"
	"github.com/simonhull/firebird-suite/weaver/pkg/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// App carries the state shared by every command of one invocation
type App struct {
	viper      *viper.Viper
	configPath string
	verbose    bool

	Config *config.Config
	Logger logger.Logger
}

// NewApp creates an App with default configuration and a silent logger.
// The root command replaces both before any subcommand runs.
func NewApp() *App {
	return &App{
		viper:  viper.New(),
		Config: config.DefaultConfig(),
		Logger: logger.NewSilentLogger(),
	}
}

// RootCmd creates and returns the root command for the weaver CLI
func RootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weaver",
		Short: "Organizational dependency graphs from declarative YAML",
		Long: `Weaver loads a tree of project directories, one YAML file per application,
into a dependency graph of components.

From that graph it can:
• List projects, applications and components
• Check that every declared dependency resolves
• Render Graphviz diagrams of a project
• Generate user-data templates from a component's dependencies`,
		Version:       weaver.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.StringVarP(&app.configPath, "config", "c", "", "Path to configuration file (default ./"+config.FileName+")")
	flags.StringP("projects", "p", "", "Projects directory (overrides projects_path)")
	flags.String("separator", "", "Identifier separator (overrides separator)")

	_ = app.viper.BindPFlag("projects_path", flags.Lookup("projects"))
	_ = app.viper.BindPFlag("separator", flags.Lookup("separator"))

	return cmd
}

// NewCLI builds the root command with every subcommand registered
func NewCLI() *cobra.Command {
	app := NewApp()
	root := RootCmd(app)

	root.AddCommand(ListCmd(app))
	root.AddCommand(ShowCmd(app))
	root.AddCommand(CheckCmd(app))
	root.AddCommand(GraphCmd(app))
	root.AddCommand(UserdataCmd(app))
	root.AddCommand(WatchCmd(app))
	root.AddCommand(ConfigCmd(app))
	root.AddCommand(VersionCmd())

	return root
}

// Execute runs the CLI and reports a failure on stderr
func Execute(ctx context.Context) error {
	root := NewCLI()
	if err := root.ExecuteContext(ctx); err != nil {
		output.SetWriter(root.ErrOrStderr())
		output.Error(err.Error())
		return err
	}
	return nil
}

// setup loads configuration and wires output and logging for a command
func (a *App) setup(cmd *cobra.Command) error {
	output.SetVerbose(a.verbose)
	output.SetWriter(cmd.OutOrStdout())

	cfg, err := config.Load(a.viper, a.configPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if a.verbose {
		level = logger.LevelDebug
	}
	a.Logger = logger.NewLogger(level, cmd.ErrOrStderr())
	logger.SetDefault(a.Logger)

	output.Verbose(fmt.Sprintf("Projects directory: %s", cfg.ProjectsPath))
	return nil
}

// newLoader returns a loader configured from the current configuration
func (a *App) newLoader() *loader.Loader {
	return loader.New(catalog.WithSeparator(a.Config.Separator)).WithLogger(a.Logger)
}

// loadCatalog builds a fresh catalog from the configured projects directory
func (a *App) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := a.newLoader().Load(ctx, a.Config.ProjectsPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", a.Config.ProjectsPath, err)
	}
	return cat, nil
}

// isStdout reports whether an --out value names the command's stdout
func isStdout(path string) bool {
	return path == "" || path == "-" || path == "stdout"
}

// writeOutput renders into memory and only then writes the result to
// stdout or to path, so a failed render leaves an existing file untouched
func writeOutput(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	if isStdout(path) {
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// writeYAML encodes v as a YAML document with two-space indentation
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// VersionCmd prints version information
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Weaver v%s\n", weaver.Version)
		},
	}
}
