package catalog

import (
	"fmt"
	"strings"
)

// DefaultSeparator joins the parts of every identifier
const DefaultSeparator = "."

// Scheme builds identifiers of the form <project><sep><application><sep><component>.
type Scheme struct {
	Separator string
}

// DefaultScheme returns the scheme using DefaultSeparator
func DefaultScheme() Scheme {
	return Scheme{Separator: DefaultSeparator}
}

// Join composes an identifier from its parts
func (s Scheme) Join(parts ...string) string {
	return strings.Join(parts, s.sep())
}

// Split breaks an identifier back into its parts
func (s Scheme) Split(id string) []string {
	return strings.Split(id, s.sep())
}

// validateName rejects names that would make identifiers ambiguous.
func (s Scheme) validateName(kind, name string) error {
	if name == "" {
		return &ConfigError{
			Field:   "name",
			Message: fmt.Sprintf("%s name is required", kind),
		}
	}
	if strings.Contains(name, s.sep()) {
		return &ConfigError{
			Field:      "name",
			Component:  name,
			Message:    fmt.Sprintf("%s name %q contains the identifier separator %q", kind, name, s.sep()),
			Suggestion: "rename it or configure another separator",
		}
	}
	return nil
}

func (s Scheme) sep() string {
	if s.Separator == "" {
		return DefaultSeparator
	}
	return s.Separator
}
