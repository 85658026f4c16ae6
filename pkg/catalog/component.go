package catalog

import "fmt"

// Reference is a declared, unresolved dependency on another component
type Reference struct {
	Component string // Target identifier, as written
	Service   string // Service the dependent consumes from the target
}

// Component is the smallest tracked unit of the dependency graph
type Component struct {
	Name         string
	Application  *Application
	Custom       map[string]string
	Dependencies []Reference
}

// NewComponent validates a component record and builds the component.
// It has no side effect: registration is Catalog.Register's job.
func NewComponent(app *Application, rec ComponentRecord) (*Component, error) {
	if err := app.Project.scheme.validateName("component", rec.Name); err != nil {
		return nil, err
	}

	comp := &Component{
		Name:         rec.Name,
		Application:  app,
		Custom:       app.Custom,
		Dependencies: make([]Reference, 0, len(rec.Dependencies)),
	}

	for i, dep := range rec.Dependencies {
		if err := comp.validateDependency(i, dep); err != nil {
			return nil, err
		}
		comp.Dependencies = append(comp.Dependencies, Reference{
			Component: dep.Component,
			Service:   dep.Service,
		})
	}

	return comp, nil
}

// ID returns <project><sep><application><sep><component>
func (c *Component) ID() string {
	return c.Application.Project.scheme.Join(c.Application.Project.Name, c.Application.Name, c.Name)
}

func (c *Component) String() string {
	return c.ID()
}

// Project returns the project owning the component
func (c *Component) Project() *Project {
	return c.Application.Project
}

func (c *Component) validateDependency(index int, dep DependencyRecord) error {
	if dep.IsLegacy() {
		return &ConfigError{
			Line:      dep.Line,
			Field:     "marque",
			Component: c.ID(),
			Message:   fmt.Sprintf("dependency %d uses the deprecated marque/application/component/soft scheme", index),
			Suggestion: fmt.Sprintf("declare 'component: <project>%s<application>%s<component>' and 'service: <name>' instead",
				c.Application.Project.scheme.sep(), c.Application.Project.scheme.sep()),
		}
	}

	if dep.Component == "" {
		return &ConfigError{
			Line:      dep.Line,
			Field:     "component",
			Component: c.ID(),
			Message:   fmt.Sprintf("missing key to define dependency %d", index),
		}
	}

	if dep.Service == "" {
		return &ConfigError{
			Line:       dep.Line,
			Field:      "service",
			Component:  c.ID(),
			Message:    fmt.Sprintf("missing key to define dependency %d", index),
			Suggestion: "add 'service: default' if no specific service is consumed",
		}
	}

	return nil
}
