package catalog

import "sort"

// Project is the top-level grouping of applications sharing a team and domain
type Project struct {
	Name        string
	Domain      string
	Team        string
	User        User
	Custom      map[string]string // Graph customization passed through to renderers
	HiddenLinks []HiddenLink

	Applications map[string]*Application

	scheme Scheme
}

// NewProject creates a project from its optional defaults record. A nil
// record yields a project with every default value.
func NewProject(name string, rec *ProjectRecord, scheme Scheme) (*Project, error) {
	if err := scheme.validateName("project", name); err != nil {
		return nil, err
	}

	p := &Project{
		Name:         name,
		User:         User{Owner: DefaultOwner, Group: DefaultGroup},
		Custom:       map[string]string{},
		Applications: make(map[string]*Application),
		scheme:       scheme,
	}

	if rec == nil {
		return p, nil
	}

	p.Domain = rec.Domain
	p.Team = rec.Team
	if rec.Custom != nil {
		p.Custom = rec.Custom
	}
	if rec.User != nil {
		if rec.User.Owner != "" {
			p.User.Owner = rec.User.Owner
		}
		if rec.User.Group != "" {
			p.User.Group = rec.User.Group
		}
	}
	p.HiddenLinks = rec.HiddenLinks

	return p, nil
}

// ID returns the project identifier, which is its name
func (p *Project) ID() string {
	return p.Name
}

func (p *Project) String() string {
	return p.ID()
}

// AddApplication builds an application from its record and attaches it to the project
func (p *Project) AddApplication(name string, rec *ApplicationRecord) (*Application, error) {
	if _, exists := p.Applications[name]; exists {
		return nil, &DuplicateError{Kind: "application", ID: p.scheme.Join(p.Name, name)}
	}

	app, err := NewApplication(p, name, rec)
	if err != nil {
		return nil, err
	}

	p.Applications[name] = app
	return app, nil
}

// Application looks up an application by name. Returns nil if absent.
func (p *Project) Application(name string) *Application {
	return p.Applications[name]
}

// ApplicationNames returns the application names in sorted order
func (p *Project) ApplicationNames() []string {
	names := make([]string, 0, len(p.Applications))
	for name := range p.Applications {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parents gathers the parent groups of every application in the project
func (p *Project) Parents(cat *Catalog) ([]ComponentLinks, error) {
	var links []ComponentLinks
	for _, name := range p.ApplicationNames() {
		appLinks, err := p.Applications[name].Parents(cat)
		if err != nil {
			return nil, err
		}
		links = append(links, appLinks...)
	}
	return links, nil
}

// Children gathers the child groups of every application in the project
func (p *Project) Children(cat *Catalog) []ComponentLinks {
	var links []ComponentLinks
	for _, name := range p.ApplicationNames() {
		links = append(links, p.Applications[name].Children(cat)...)
	}
	return links
}

// IsHidden reports whether the parent→child edge is suppressed in diagrams
func (p *Project) IsHidden(parentID, childID string) bool {
	for _, link := range p.HiddenLinks {
		if link.Parent == parentID && link.Child == childID {
			return true
		}
	}
	return false
}
