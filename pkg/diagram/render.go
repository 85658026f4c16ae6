package diagram

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// Renderer parses and executes templates, caching parsed templates by name
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex // Protect cache for concurrent access
}

// NewRenderer creates a renderer with the DOT helper functions
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template from a string.
// The name is used for caching and error messages.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	r.mu.RLock()
	if tmpl, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return r.executeTemplate(tmpl, data)
	}
	r.mu.RUnlock()

	tmpl, err := template.New(name).Funcs(r.funcMap).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	r.mu.Lock()
	r.cache[name] = tmpl
	r.mu.Unlock()

	return r.executeTemplate(tmpl, data)
}

func (r *Renderer) executeTemplate(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"quote":  Quote, // FRONT"END → "FRONT\"END"
		"id":     ID,    // attribute names
		"dict":   Dict,  // Create map for passing multiple values
		"indent": Indent,
		"inc":    func(i int) int { return i + 1 },
		"upper":  strings.ToUpper, // title templates
		"lower":  strings.ToLower,
	}
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`, "\r", `\n`)

// Quote returns s as a DOT double-quoted string. Backslashes are escaped so
// a trailing one cannot close the string; newlines become DOT line breaks.
func Quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// ID returns s unchanged when it is a plain DOT identifier and quoted
// otherwise
func ID(s string) string {
	if isPlainID(s) {
		return s
	}
	return Quote(s)
}

func isPlainID(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Indent returns depth levels of two-space indentation
func Indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// Dict creates a map from alternating key-value pairs
// Usage in template: {{ template "cluster" (dict "Cluster" . "Depth" 1) }}
func Dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires an even number of arguments")
	}

	result := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings, got %T at position %d", values[i], i)
		}
		result[key] = values[i+1]
	}
	return result, nil
}
