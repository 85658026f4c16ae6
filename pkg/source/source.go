// Package source decodes the YAML records of a configuration tree.
//
// A project directory holds an optional defaults record and one record per
// application. Application records are open mappings: reserved keys carry
// metadata and every other mapping-valued key defines a component. Anchors,
// aliases and "<<" merge keys are resolved the way a plain YAML load would. This
// package turns that shape into the typed records of package catalog so no
// other code has to infer what a key means.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/weaver/pkg/catalog"
	"gopkg.in/yaml.v3"
)

// Extensions recognized as YAML records
var Extensions = []string{".yml", ".yaml"}

// DefaultsNames are the accepted file names of a project defaults record
var DefaultsNames = []string{"defaults.yml", "defaults.yaml"}

// IsYAMLFile reports whether the file name has a recognized YAML extension
func IsYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// IsDefaultsFile reports whether the file name is a project defaults record
func IsDefaultsFile(name string) bool {
	for _, known := range DefaultsNames {
		if name == known {
			return true
		}
	}
	return false
}

// BaseName strips the extension from a record file name
func BaseName(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

// ParseProject reads a project defaults file
func ParseProject(path string) (*catalog.ProjectRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults file: %w", err)
	}
	return ParseProjectBytes(data, path)
}

// ParseProjectBytes decodes a project defaults record. An empty document
// yields an empty record.
func ParseProjectBytes(data []byte, file string) (*catalog.ProjectRecord, error) {
	var rec catalog.ProjectRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, &catalog.ConfigError{
			File:    file,
			Message: fmt.Sprintf("failed to parse YAML: %v", err),
		}
	}
	return &rec, nil
}

// ParseApplication reads an application file
func ParseApplication(path string) (*catalog.ApplicationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read application file: %w", err)
	}
	return ParseApplicationBytes(data, path)
}

// ParseApplicationBytes decodes an application record
func ParseApplicationBytes(data []byte, file string) (*catalog.ApplicationRecord, error) {
	rec := &catalog.ApplicationRecord{File: file}

	var root yaml.Node
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return rec, nil
		}
		return nil, &catalog.ConfigError{
			File:    file,
			Message: fmt.Sprintf("failed to parse YAML: %v", err),
		}
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return rec, nil
		}
		node = node.Content[0]
	}

	if isNull(node) {
		return rec, nil
	}

	if node.Kind != yaml.MappingNode {
		return nil, &catalog.ConfigError{
			File:    file,
			Line:    node.Line,
			Message: "application record must be a mapping",
		}
	}

	pairs, err := mappingPairs(file, node)
	if err != nil {
		return nil, err
	}

	for _, p := range pairs {
		key, value := p.key, resolve(p.value)

		switch key.Value {
		case catalog.KeyGraphCustomization:
			custom := map[string]string{}
			if !isNull(value) {
				if err := value.Decode(&custom); err != nil {
					return nil, decodeError(file, key, err)
				}
			}
			rec.Custom = custom

		case catalog.KeyUser, catalog.KeyGraphHiddenLinks:
			// Project attributes, read from the defaults record only.
			rec.Ignored = append(rec.Ignored, key.Value)

		default:
			if value.Kind != yaml.MappingNode {
				rec.Ignored = append(rec.Ignored, key.Value)
				continue
			}
			comp, err := parseComponent(file, key, value)
			if err != nil {
				return nil, err
			}
			rec.Components = append(rec.Components, comp)
		}
	}

	return rec, nil
}

// parseComponent decodes one component definition
func parseComponent(file string, key, value *yaml.Node) (catalog.ComponentRecord, error) {
	comp := catalog.ComponentRecord{
		Name: key.Value,
		Line: key.Line,
	}

	pairs, err := mappingPairs(file, value)
	if err != nil {
		return comp, err
	}

	for _, p := range pairs {
		if p.key.Value != "dependencies" {
			continue
		}

		deps := resolve(p.value)
		if isNull(deps) {
			continue
		}
		if deps.Kind != yaml.SequenceNode {
			return comp, &catalog.ConfigError{
				File:      file,
				Line:      p.value.Line,
				Field:     "dependencies",
				Component: key.Value,
				Message:   "dependencies must be a list",
			}
		}

		for _, item := range deps.Content {
			target := resolve(item)
			if target.Kind != yaml.MappingNode {
				return comp, &catalog.ConfigError{
					File:      file,
					Line:      item.Line,
					Field:     "dependencies",
					Component: key.Value,
					Message:   "each dependency must be a mapping with 'component' and 'service'",
				}
			}

			var dep catalog.DependencyRecord
			if err := target.Decode(&dep); err != nil {
				return comp, decodeError(file, item, err)
			}
			dep.Line = item.Line
			comp.Dependencies = append(comp.Dependencies, dep)
		}
	}

	return comp, nil
}

type pair struct {
	key, value *yaml.Node
}

// mappingPairs lists the entries of a mapping with "<<" merge keys expanded
// in place. Keys written in the mapping win over merged ones and earlier
// merge sources win over later ones.
func mappingPairs(file string, node *yaml.Node) ([]pair, error) {
	return expandMapping(file, node, map[*yaml.Node]bool{})
}

func expandMapping(file string, node *yaml.Node, visiting map[*yaml.Node]bool) ([]pair, error) {
	if visiting[node] {
		return nil, &catalog.ConfigError{
			File:    file,
			Line:    node.Line,
			Message: "recursive merge key",
		}
	}
	visiting[node] = true
	defer delete(visiting, node)

	explicit := map[string]bool{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if key := node.Content[i]; !isMergeKey(key) {
			explicit[key.Value] = true
		}
	}

	var pairs []pair
	seen := map[string]bool{}
	add := func(p pair) {
		if seen[p.key.Value] {
			return
		}
		seen[p.key.Value] = true
		pairs = append(pairs, p)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if !isMergeKey(key) {
			add(pair{key, value})
			continue
		}

		merged, err := mergeSources(file, key, value, visiting)
		if err != nil {
			return nil, err
		}
		for _, p := range merged {
			if !explicit[p.key.Value] {
				add(p)
			}
		}
	}

	return pairs, nil
}

// mergeSources expands the value of a merge key: a mapping or a list of
// mappings, possibly through aliases
func mergeSources(file string, key, value *yaml.Node, visiting map[*yaml.Node]bool) ([]pair, error) {
	invalid := &catalog.ConfigError{
		File:    file,
		Line:    key.Line,
		Field:   key.Value,
		Message: "merge key requires a mapping or a list of mappings",
	}

	target := resolve(value)
	switch target.Kind {
	case yaml.MappingNode:
		return expandMapping(file, target, visiting)
	case yaml.SequenceNode:
		var pairs []pair
		for _, item := range target.Content {
			source := resolve(item)
			if source.Kind != yaml.MappingNode {
				return nil, invalid
			}
			merged, err := expandMapping(file, source, visiting)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, merged...)
		}
		return pairs, nil
	default:
		return nil, invalid
	}
}

// resolve follows an alias to the node it names
func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!merge"
}

func decodeError(file string, node *yaml.Node, err error) error {
	return &catalog.ConfigError{
		File:    file,
		Line:    node.Line,
		Field:   node.Value,
		Message: fmt.Sprintf("invalid value: %v", err),
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
