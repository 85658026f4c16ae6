// Package userdata generates infrastructure user-data templates from the
// dependencies of a component.
//
// Every parent a component depends on expands into the variables of the
// service consumed from it. With the flat format, a component depending on
// P.WEB.DATABASE through "mysql" gets one line per mysql variable:
//
//	P_WEB_DATABASE_mysql_host=${P_WEB_DATABASE_mysql_host}
package userdata

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/firebird-suite/weaver/pkg/catalog"
)

// FormatFlat is the KEY=${KEY} line format
const FormatFlat = "flat"

// DefaultService is the service table entry used for unknown services
const DefaultService = "default"

// FlatHeader opens every flat template
const FlatHeader = "# Flat user-data usage"

var (
	// ErrUnsupportedFormat is returned for any format other than FormatFlat
	ErrUnsupportedFormat = errors.New("unsupported user-data format")

	// ErrComponentNotFound is returned when the component is not in the catalog
	ErrComponentNotFound = errors.New("component not found")
)

// Generator expands dependencies using a service → variable keys table
type Generator struct {
	Services map[string][]string
}

// New creates a generator for the given service table
func New(services map[string][]string) *Generator {
	return &Generator{Services: services}
}

// Flat renders the flat template of comp. Parents are visited in
// declaration order; a service missing from the table falls back to
// DefaultService.
func (g *Generator) Flat(cat *catalog.Catalog, comp *catalog.Component) (string, error) {
	links, err := cat.ParentLinks(comp)
	if err != nil {
		return "", err
	}

	sep := cat.Scheme().Separator

	var buf strings.Builder
	buf.WriteString(FlatHeader)
	buf.WriteString("\n")

	for _, link := range links {
		parentKey := strings.ReplaceAll(link.Component.ID(), sep, "_") + "_" + link.Service

		keys, err := g.serviceKeys(link.Service)
		if err != nil {
			return "", fmt.Errorf("%s dependency on %s: %w", comp.ID(), link.Component.ID(), err)
		}

		for _, key := range keys {
			varName := parentKey + "_" + key
			fmt.Fprintf(&buf, "\n%s=${%s}", varName, varName)
		}
	}

	buf.WriteString("\n")
	return buf.String(), nil
}

// serviceKeys looks the service up as declared, then in lower case since
// configuration keys loaded through viper are lowercased
func (g *Generator) serviceKeys(service string) ([]string, error) {
	for _, name := range []string{service, strings.ToLower(service), DefaultService} {
		if keys, ok := g.Services[name]; ok {
			return keys, nil
		}
	}
	return nil, fmt.Errorf("service %q is not configured and no %q service is defined", service, DefaultService)
}

// Generate writes the template of the component identified by id in the
// requested format
func (g *Generator) Generate(cat *catalog.Catalog, id, format string, w io.Writer) error {
	comp := cat.Component(id)
	if comp == nil {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}

	var content string
	switch format {
	case FormatFlat, "":
		out, err := g.Flat(cat, comp)
		if err != nil {
			return err
		}
		content = out
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	_, err := io.WriteString(w, content)
	return err
}
