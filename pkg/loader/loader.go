package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/weaver/pkg/catalog"
	"github.com/simonhull/firebird-suite/weaver/pkg/logger"
	"github.com/simonhull/firebird-suite/weaver/pkg/source"
)

// Loader builds a Catalog from a configuration tree
type Loader struct {
	options []catalog.Option
	logger  logger.Logger
}

// New creates a Loader. The options configure every Catalog it builds.
func New(opts ...catalog.Option) *Loader {
	return &Loader{
		options: opts,
		logger:  logger.Default(),
	}
}

// WithLogger returns a new Loader with the specified logger
func (l *Loader) WithLogger(log logger.Logger) *Loader {
	return &Loader{
		options: l.options,
		logger:  log,
	}
}

// Load reads every project directory under root into a fresh Catalog.
//
// Each subdirectory of root is a project. Inside it, an optional defaults
// file describes the project and every other YAML file describes one
// application named after the file. Dependencies are not resolved here:
// call Catalog.Resolve, or use LoadResolved.
func (l *Loader) Load(ctx context.Context, root string) (*catalog.Catalog, error) {
	l.logger.Info("Loading projects", logger.F("path", root))

	projectDirs, err := listProjectDirs(root)
	if err != nil {
		return nil, err
	}

	if len(projectDirs) == 0 {
		return nil, &catalog.ArgumentError{Path: root, Message: "no project directory found"}
	}

	cat := catalog.New(l.options...)
	for _, name := range projectDirs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := l.loadProject(cat, filepath.Join(root, name), name); err != nil {
			return nil, fmt.Errorf("loading project %s: %w", name, err)
		}
	}

	l.logger.Info("Projects loaded",
		logger.F("projects", len(projectDirs)),
		logger.F("components", cat.Len()))

	return cat, nil
}

// LoadResolved runs Load and then resolves every dependency, failing with
// catalog.ResolutionErrors if any reference does not resolve.
func (l *Loader) LoadResolved(ctx context.Context, root string) (*catalog.Catalog, error) {
	cat, err := l.Load(ctx, root)
	if err != nil {
		return nil, err
	}
	if err := cat.Resolve(); err != nil {
		return nil, err
	}
	return cat, nil
}

// loadProject builds one project and registers its applications
func (l *Loader) loadProject(cat *catalog.Catalog, dir, name string) error {
	log := l.logger.WithFields(logger.F("project", name))
	log.Info("Project", logger.F("path", dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading project directory: %w", err)
	}

	rec, defaultsFile, err := readDefaults(dir, entries)
	if err != nil {
		return err
	}
	if defaultsFile == "" {
		log.Debug("No defaults file, using project defaults")
	}

	project, err := catalog.NewProject(name, rec, cat.Scheme())
	if err != nil {
		return err
	}
	if err := cat.AddProject(project); err != nil {
		return err
	}

	for _, entry := range entries {
		fileName := entry.Name()
		path := filepath.Join(dir, fileName)

		if fileName == defaultsFile {
			continue
		}
		if entry.IsDir() || !source.IsYAMLFile(fileName) {
			log.Info("Ignoring file", logger.F("path", path))
			continue
		}

		log.Info("Application", logger.F("path", path))
		appRec, err := source.ParseApplication(path)
		if err != nil {
			return err
		}
		for _, key := range appRec.Ignored {
			log.Debug("Ignoring non-component key", logger.F("file", path), logger.F("key", key))
		}

		app, err := project.AddApplication(source.BaseName(fileName), appRec)
		if err != nil {
			return err
		}
		if err := cat.RegisterApplication(app); err != nil {
			return err
		}

		log.Debug("Registered application",
			logger.F("application", app.ID()),
			logger.F("components", len(app.Components)))
	}

	return nil
}

// readDefaults parses the project defaults file if one exists. It returns
// the file name used, or "" when there is none.
func readDefaults(dir string, entries []os.DirEntry) (*catalog.ProjectRecord, string, error) {
	found := ""
	for _, entry := range entries {
		if entry.IsDir() || !source.IsDefaultsFile(entry.Name()) {
			continue
		}
		if found != "" {
			return nil, "", &catalog.ConfigError{
				File:       filepath.Join(dir, entry.Name()),
				Message:    fmt.Sprintf("project has both %s and %s", found, entry.Name()),
				Suggestion: "keep a single defaults file",
			}
		}
		found = entry.Name()
	}

	if found == "" {
		return nil, "", nil
	}

	rec, err := source.ParseProject(filepath.Join(dir, found))
	if err != nil {
		return nil, "", err
	}
	return rec, found, nil
}

// listProjectDirs returns the visible subdirectories of root, following
// symbolic links to directories.
func listProjectDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading projects directory: %w", err)
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(root, name))
			if err != nil {
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			dirs = append(dirs, name)
		}
	}
	return dirs, nil
}
