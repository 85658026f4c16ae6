package catalog

import "errors"

// Application is a deployable grouping of components within a project
type Application struct {
	Name       string
	Project    *Project
	Custom     map[string]string
	Components map[string]*Component

	order []string
}

// ComponentLinks pairs a component with the components it is linked to
type ComponentLinks struct {
	ID         string
	Components []*Component
}

// NewApplication builds an application and its components. The graph
// customization is the project's map unless the record sets its own.
func NewApplication(project *Project, name string, rec *ApplicationRecord) (*Application, error) {
	if err := project.scheme.validateName("application", name); err != nil {
		return nil, err
	}

	app := &Application{
		Name:       name,
		Project:    project,
		Custom:     project.Custom,
		Components: make(map[string]*Component),
	}

	if rec == nil {
		return app, nil
	}

	if rec.Custom != nil {
		app.Custom = rec.Custom
	}

	for _, compRec := range rec.Components {
		if _, err := app.AddComponent(compRec); err != nil {
			var cfgErr *ConfigError
			if errors.As(err, &cfgErr) && cfgErr.File == "" {
				cfgErr.File = rec.File
			}
			return nil, err
		}
	}

	return app, nil
}

// ID returns <project><sep><application>
func (a *Application) ID() string {
	return a.Project.scheme.Join(a.Project.Name, a.Name)
}

func (a *Application) String() string {
	return a.ID()
}

// AddComponent builds a component from its record and attaches it
func (a *Application) AddComponent(rec ComponentRecord) (*Component, error) {
	if _, exists := a.Components[rec.Name]; exists {
		return nil, &DuplicateError{Kind: "component", ID: a.Project.scheme.Join(a.ID(), rec.Name)}
	}

	comp, err := NewComponent(a, rec)
	if err != nil {
		return nil, err
	}

	a.Components[rec.Name] = comp
	a.order = append(a.order, rec.Name)
	return comp, nil
}

// Component looks up a component by name. Returns nil if absent.
func (a *Application) Component(name string) *Component {
	return a.Components[name]
}

// ComponentList returns the components in declaration order
func (a *Application) ComponentList() []*Component {
	list := make([]*Component, 0, len(a.order))
	for _, name := range a.order {
		list = append(list, a.Components[name])
	}
	return list
}

// Parents lists, for each component with dependencies, the components it depends on
func (a *Application) Parents(cat *Catalog) ([]ComponentLinks, error) {
	var links []ComponentLinks
	for _, comp := range a.ComponentList() {
		parents, err := cat.Parents(comp)
		if err != nil {
			return nil, err
		}
		if len(parents) == 0 {
			continue
		}
		links = append(links, ComponentLinks{ID: comp.ID(), Components: parents})
	}
	return links, nil
}

// Children lists, for each component with dependents, the components depending on it
func (a *Application) Children(cat *Catalog) []ComponentLinks {
	var links []ComponentLinks
	for _, comp := range a.ComponentList() {
		children := cat.Children(comp)
		if len(children) == 0 {
			continue
		}
		links = append(links, ComponentLinks{ID: comp.ID(), Components: children})
	}
	return links
}
