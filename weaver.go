// Package weaver loads organizational dependency graphs from a tree of YAML
// records and renders them as diagrams and user-data templates.
package weaver

// Version is the current weaver release
const Version = "0.1.0"
