package catalog

import (
	"bytes"
	"fmt"
)

// ArgumentError reports an unusable load argument, such as a configuration
// root without any project directory.
type ArgumentError struct {
	Path    string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ConfigError represents a malformed configuration record with context
type ConfigError struct {
	File       string // Source file (if known)
	Line       int    // Line number in YAML (if available)
	Field      string // Missing or invalid field (e.g., "service")
	Component  string // Identifier of the offending entity
	Message    string // Error message
	Suggestion string // Helpful suggestion (optional)
}

// Error returns a formatted error message
func (e *ConfigError) Error() string {
	var buf bytes.Buffer
	if e.File != "" {
		buf.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&buf, ":%d", e.Line)
		}
		buf.WriteString(": ")
	}
	buf.WriteString(e.Message)
	if e.Field != "" {
		fmt.Fprintf(&buf, " (field %q", e.Field)
		if e.Component != "" {
			fmt.Fprintf(&buf, ", component %s", e.Component)
		}
		buf.WriteString(")")
	} else if e.Component != "" {
		fmt.Fprintf(&buf, " (component %s)", e.Component)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&buf, ". Suggestion: %s", e.Suggestion)
	}
	return buf.String()
}

// DuplicateError reports an identifier registered twice.
type DuplicateError struct {
	Kind string // "project", "application" or "component"
	ID   string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s identifier %s", e.Kind, e.ID)
}

// DependencyError reports a dependency reference that does not resolve to a
// registered component.
type DependencyError struct {
	Missing   string // Unresolved target identifier
	Dependent string // Identifier of the component declaring the dependency
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found to resolve %s dependency", e.Missing, e.Dependent)
}

// ResolutionErrors is the full list of unresolved references in a catalog
type ResolutionErrors []DependencyError

// Error returns all resolution errors formatted with clear separation
func (e ResolutionErrors) Error() string {
	if len(e) == 0 {
		return "resolution errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("found %d unresolved dependencies:\n", len(e)))
	for i, err := range e {
		buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return buf.String()
}
