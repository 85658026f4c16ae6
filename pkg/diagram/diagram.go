// Package diagram turns the projects of a catalog into Graphviz diagrams.
//
// A Graph holds one cluster per project. Each project cluster nests one
// cluster per application, and each application cluster holds one node per
// component. Clusters carry the graph customization of the entity they
// represent. Edges go from a parent to the component depending on it,
// except the links a project lists as hidden.
package diagram

import (
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/firebird-suite/weaver/pkg/catalog"
)

// DefaultTitle is the title template of a detailed project diagram
const DefaultTitle = "Detailed dependencies for {{ .Project }}"

// ErrProjectNotFound is returned when a diagram names an unknown project
var ErrProjectNotFound = errors.New("project not found")

// Node is one rendered component
type Node struct {
	ID    string
	Label string
	Attrs map[string]string
}

// Cluster groups nodes and nested clusters under a label
type Cluster struct {
	ID       string
	Label    string
	Attrs    map[string]string
	Clusters []*Cluster
	Nodes    []*Node
}

// Edge links a parent to one of its children
type Edge struct {
	From    string
	To      string
	Service string
}

// Graph is a diagram under construction
type Graph struct {
	Title    string
	Clusters []*Cluster
	Edges    []Edge

	renderer *Renderer
}

// New creates an empty diagram
func New(title string) *Graph {
	return &Graph{
		Title:    title,
		renderer: NewRenderer(),
	}
}

// AddProject adds the cluster of a project. Without a filter every
// application and component of the project is drawn; with one, only the
// given components are, grouped by application. Adding a project again
// replaces its cluster.
func (g *Graph) AddProject(cat *catalog.Catalog, projectID string, filter ...*catalog.Component) error {
	project := cat.Project(projectID)
	if project == nil {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}

	cluster := newCluster(project.ID(), project.Name, project.Custom)

	var components []*catalog.Component
	if len(filter) == 0 {
		for _, name := range project.ApplicationNames() {
			app := project.Application(name)
			appCluster := newCluster(app.ID(), app.Name, app.Custom)
			for _, comp := range app.ComponentList() {
				appCluster.Nodes = append(appCluster.Nodes, newNode(comp))
				components = append(components, comp)
			}
			cluster.Clusters = append(cluster.Clusters, appCluster)
		}
	} else {
		byApp := make(map[*catalog.Application]*Cluster)
		for _, comp := range filter {
			appCluster, ok := byApp[comp.Application]
			if !ok {
				appCluster = newCluster(comp.Application.ID(), comp.Application.Name, comp.Application.Custom)
				byApp[comp.Application] = appCluster
				cluster.Clusters = append(cluster.Clusters, appCluster)
			}
			appCluster.Nodes = append(appCluster.Nodes, newNode(comp))
			components = append(components, comp)
		}
	}

	edges, err := projectEdges(cat, project, components)
	if err != nil {
		return err
	}

	g.removeProject(projectID)
	g.Clusters = append(g.Clusters, cluster)
	g.Edges = append(g.Edges, edges...)
	return nil
}

func projectEdges(cat *catalog.Catalog, project *catalog.Project, components []*catalog.Component) ([]Edge, error) {
	var edges []Edge
	for _, comp := range components {
		links, err := cat.ParentLinks(comp)
		if err != nil {
			return nil, err
		}
		for _, link := range links {
			if project.IsHidden(link.Component.ID(), comp.ID()) {
				continue
			}
			edges = append(edges, Edge{
				From:    link.Component.ID(),
				To:      comp.ID(),
				Service: link.Service,
			})
		}
	}
	return edges, nil
}

// removeProject drops a previously added project cluster and its edges
func (g *Graph) removeProject(projectID string) {
	for i, c := range g.Clusters {
		if c.ID != projectID {
			continue
		}
		nodes := make(map[string]bool)
		c.walk(func(n *Node) { nodes[n.ID] = true })

		g.Clusters = append(g.Clusters[:i], g.Clusters[i+1:]...)
		edges := g.Edges[:0]
		for _, e := range g.Edges {
			if !nodes[e.To] {
				edges = append(edges, e)
			}
		}
		g.Edges = edges
		return
	}
}

// Struct summarizes the diagram as nested maps
func (g *Graph) Struct() map[string]any {
	clusters := make(map[string]any, len(g.Clusters))
	for _, c := range g.Clusters {
		clusters[c.ID] = c.Struct()
	}
	return map[string]any{
		"title":    g.Title,
		"clusters": clusters,
	}
}

// Struct summarizes the cluster with its label, nested clusters and node identifiers
func (c *Cluster) Struct() map[string]any {
	s := map[string]any{"label": c.Label}
	if len(c.Clusters) > 0 {
		nested := make(map[string]any, len(c.Clusters))
		for _, sub := range c.Clusters {
			nested[sub.ID] = sub.Struct()
		}
		s["clusters"] = nested
	}
	if len(c.Nodes) > 0 {
		nodes := make([]string, 0, len(c.Nodes))
		for _, n := range c.Nodes {
			nodes = append(nodes, n.ID)
		}
		s["nodes"] = nodes
	}
	return s
}

// Nodes returns every node of the diagram, depth first
func (g *Graph) Nodes() []*Node {
	var nodes []*Node
	for _, c := range g.Clusters {
		c.walk(func(n *Node) { nodes = append(nodes, n) })
	}
	return nodes
}

func (c *Cluster) walk(fn func(*Node)) {
	for _, n := range c.Nodes {
		fn(n)
	}
	for _, sub := range c.Clusters {
		sub.walk(fn)
	}
}

// WriteDOT renders the diagram in Graphviz DOT syntax
func (g *Graph) WriteDOT(w io.Writer) error {
	out, err := g.renderer.RenderString("dot", dotTemplate, g)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// ProjectTitle renders a title template for a project
func ProjectTitle(format, projectID string) (string, error) {
	if format == "" {
		format = DefaultTitle
	}
	out, err := NewRenderer().RenderString("title", format, struct{ Project string }{projectID})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// GenerateDetailed writes the full diagram of one project
func GenerateDetailed(cat *catalog.Catalog, projectID string, w io.Writer) error {
	title, err := ProjectTitle(DefaultTitle, projectID)
	if err != nil {
		return err
	}

	g := New(title)
	if err := g.AddProject(cat, projectID); err != nil {
		return err
	}
	return g.WriteDOT(w)
}

func newCluster(id, label string, custom map[string]string) *Cluster {
	attrs := make(map[string]string, len(custom))
	for k, v := range custom {
		attrs[k] = v
	}
	return &Cluster{ID: id, Label: label, Attrs: attrs}
}

func newNode(comp *catalog.Component) *Node {
	return &Node{
		ID:    comp.ID(),
		Label: comp.Name,
		Attrs: map[string]string{"style": "filled"},
	}
}

const dotTemplate = `{{- define "cluster" -}}
{{- $d := .Depth -}}
{{- with .Cluster }}
{{ indent $d }}subgraph {{ quote (printf "cluster_%s" .ID) }} {
{{ indent $d }}  label={{ quote .Label }};
{{- range $k, $v := .Attrs }}
{{ indent $d }}  {{ id $k }}={{ quote $v }};
{{- end }}
{{- range .Nodes }}
{{ indent $d }}  {{ quote .ID }} [label={{ quote .Label }}{{ range $k, $v := .Attrs }}, {{ id $k }}={{ quote $v }}{{ end }}];
{{- end }}
{{- range .Clusters }}
{{- template "cluster" (dict "Cluster" . "Depth" (inc $d)) }}
{{- end }}
{{ indent $d }}}
{{- end }}
{{- end -}}
digraph {{ quote .Title }} {
  label={{ quote .Title }};
  labelloc=t;
  compound=true;
{{- range .Clusters }}
{{- template "cluster" (dict "Cluster" . "Depth" 1) }}
{{- end }}
{{- range .Edges }}
  {{ quote .From }} -> {{ quote .To }}{{ with .Service }} [label={{ quote . }}]{{ end }};
{{- end }}
}
`
