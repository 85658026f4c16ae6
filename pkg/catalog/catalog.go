package catalog

import "sort"

// Catalog indexes every loaded project and component together with the
// reverse dependency edges. A Catalog is filled once by a single writer
// (the loader) and is read-only afterwards; it holds no lock.
type Catalog struct {
	scheme     Scheme
	projects   map[string]*Project
	components map[string]*Component
	dependents map[string][]*Component // target ID → components declaring it
}

// Option configures a Catalog
type Option func(*Catalog)

// WithSeparator sets the identifier separator
func WithSeparator(sep string) Option {
	return func(c *Catalog) {
		if sep != "" {
			c.scheme = Scheme{Separator: sep}
		}
	}
}

// New creates an empty catalog
func New(opts ...Option) *Catalog {
	c := &Catalog{
		scheme:     DefaultScheme(),
		projects:   make(map[string]*Project),
		components: make(map[string]*Component),
		dependents: make(map[string][]*Component),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scheme returns the identifier scheme entities of this catalog must use
func (c *Catalog) Scheme() Scheme {
	return c.scheme
}

// AddProject registers a project under its identifier
func (c *Catalog) AddProject(p *Project) error {
	if _, exists := c.projects[p.ID()]; exists {
		return &DuplicateError{Kind: "project", ID: p.ID()}
	}
	c.projects[p.ID()] = p
	return nil
}

// Register indexes a component under its identifier, then records one
// reverse edge per declared dependency using the raw target identifier.
// Nothing is checked against the registered targets at this point.
func (c *Catalog) Register(comp *Component) error {
	id := comp.ID()
	if _, exists := c.components[id]; exists {
		return &DuplicateError{Kind: "component", ID: id}
	}
	c.components[id] = comp

	for _, ref := range comp.Dependencies {
		c.dependents[ref.Component] = append(c.dependents[ref.Component], comp)
	}
	return nil
}

// RegisterApplication registers every component of an application in declaration order
func (c *Catalog) RegisterApplication(app *Application) error {
	for _, comp := range app.ComponentList() {
		if err := c.Register(comp); err != nil {
			return err
		}
	}
	return nil
}

// Project looks up a project by identifier. Returns nil if absent.
func (c *Catalog) Project(id string) *Project {
	return c.projects[id]
}

// ProjectIDs returns all project identifiers in sorted order
func (c *Catalog) ProjectIDs() []string {
	ids := make([]string, 0, len(c.projects))
	for id := range c.projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Projects returns all projects sorted by identifier
func (c *Catalog) Projects() []*Project {
	ids := c.ProjectIDs()
	projects := make([]*Project, 0, len(ids))
	for _, id := range ids {
		projects = append(projects, c.projects[id])
	}
	return projects
}

// Component looks up a component by identifier. Returns nil if absent.
func (c *Catalog) Component(id string) *Component {
	return c.components[id]
}

// ComponentIDs returns all component identifiers in sorted order
func (c *Catalog) ComponentIDs() []string {
	ids := make([]string, 0, len(c.components))
	for id := range c.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered components
func (c *Catalog) Len() int {
	return len(c.components)
}

// ParentLink pairs a resolved parent with the service consumed from it
type ParentLink struct {
	Component *Component
	Service   string
}

// Parents resolves the dependencies of comp in declaration order.
// Fails with *DependencyError on the first reference that is not registered.
func (c *Catalog) Parents(comp *Component) ([]*Component, error) {
	parents := make([]*Component, 0, len(comp.Dependencies))
	for _, ref := range comp.Dependencies {
		parent, ok := c.components[ref.Component]
		if !ok {
			return nil, &DependencyError{Missing: ref.Component, Dependent: comp.ID()}
		}
		parents = append(parents, parent)
	}
	return parents, nil
}

// ParentLinks is Parents with the declared service kept next to each parent
func (c *Catalog) ParentLinks(comp *Component) ([]ParentLink, error) {
	links := make([]ParentLink, 0, len(comp.Dependencies))
	for _, ref := range comp.Dependencies {
		parent, ok := c.components[ref.Component]
		if !ok {
			return nil, &DependencyError{Missing: ref.Component, Dependent: comp.ID()}
		}
		links = append(links, ParentLink{Component: parent, Service: ref.Service})
	}
	return links, nil
}

// Children returns the components depending on comp. Never fails.
func (c *Catalog) Children(comp *Component) []*Component {
	return c.ChildrenOf(comp.ID())
}

// ChildrenOf returns the components that declared a dependency on id,
// whether or not a component with that identifier exists.
func (c *Catalog) ChildrenOf(id string) []*Component {
	deps := c.dependents[id]
	children := make([]*Component, len(deps))
	copy(children, deps)
	return children
}

// Resolve checks every declared reference against the registered
// components and returns ResolutionErrors listing each one that does not
// resolve, ordered by dependent identifier then declaration order.
func (c *Catalog) Resolve() error {
	var errs ResolutionErrors
	for _, id := range c.ComponentIDs() {
		comp := c.components[id]
		for _, ref := range comp.Dependencies {
			if _, ok := c.components[ref.Component]; !ok {
				errs = append(errs, DependencyError{Missing: ref.Component, Dependent: id})
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
