package catalog

// Reserved keys of an application record. Every other mapping-valued key
// declares a component. The user is a project attribute: an application
// record may carry the key but it never defines a component.
const (
	KeyUser               = "user"
	KeyGraphCustomization = "graph_customization"
	KeyGraphHiddenLinks   = "graph_hidden_links"
)

// Default owner and group of a project.
const (
	DefaultOwner = "www-data"
	DefaultGroup = "www-data"
)

// User is the owning-user descriptor of a project
type User struct {
	Owner string `yaml:"owner"`
	Group string `yaml:"group"`
}

// HiddenLink is a parent/child edge that diagrams must not draw
type HiddenLink struct {
	Parent string `yaml:"parent"`
	Child  string `yaml:"child"`
}

// ProjectRecord is the content of a project defaults file
type ProjectRecord struct {
	Domain      string            `yaml:"domain"`
	Team        string            `yaml:"team"`
	User        *User             `yaml:"user,omitempty"`
	Custom      map[string]string `yaml:"graph_customization,omitempty"`
	HiddenLinks []HiddenLink      `yaml:"graph_hidden_links,omitempty"`
}

// ApplicationRecord is one application file. Metadata and component
// definitions are kept apart; Custom is nil when the file does not set it.
type ApplicationRecord struct {
	File       string
	Custom     map[string]string
	Components []ComponentRecord
	Ignored    []string // Non-reserved keys whose value is not a record
}

// ComponentRecord is one component definition inside an application record
type ComponentRecord struct {
	Name         string
	Line         int
	Dependencies []DependencyRecord
}

// DependencyRecord is one declared dependency as written in the file.
// Component and Service form the canonical scheme; Marque, Application and
// Soft belong to the deprecated scheme and are only kept to reject it.
type DependencyRecord struct {
	Component   string `yaml:"component"`
	Service     string `yaml:"service"`
	Marque      string `yaml:"marque,omitempty"`
	Application string `yaml:"application,omitempty"`
	Soft        string `yaml:"soft,omitempty"`
	Line        int    `yaml:"-"`
}

// IsLegacy reports whether the entry uses the deprecated
// marque/application/component/soft scheme.
func (d DependencyRecord) IsLegacy() bool {
	return d.Marque != "" || d.Soft != ""
}
