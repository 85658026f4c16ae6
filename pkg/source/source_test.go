package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/firebird-suite/weaver/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsYAMLFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"WEBSITE.yml", true},
		{"API.yaml", true},
		{"UPPER.YML", true},
		{"README.txt", false},
		{"yml", false},
		{"archive.yml.bak", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsYAMLFile(tt.name))
		})
	}
}

func TestIsDefaultsFile(t *testing.T) {
	assert.True(t, IsDefaultsFile("defaults.yml"))
	assert.True(t, IsDefaultsFile("defaults.yaml"))
	assert.False(t, IsDefaultsFile("default.yml"))
	assert.False(t, IsDefaultsFile("WEBSITE.yml"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "WEBSITE", BaseName("WEBSITE.yml"))
	assert.Equal(t, "API", BaseName("projects/P/API.yaml"))
	assert.Equal(t, "WEBSITE_v1", BaseName("WEBSITE_v1.yml"))
}

func TestParseApplicationBytes(t *testing.T) {
	data := []byte(`description: ignored scalar
tags: [a, b]
user:
  owner: deploy
graph_customization:
  fillcolor: lemonchiffon
graph_hidden_links:
  - parent: P.A.X
    child: P.A.Y

BACKEND:
  dependencies:
    - component: P.A.DATABASE
      service: mysql
    - component: P.A.CACHE
      service: memcache

DATABASE: {}
CACHE:
`)

	rec, err := ParseApplicationBytes(data, "A.yml")
	require.NoError(t, err)

	assert.Equal(t, "A.yml", rec.File)
	assert.Equal(t, map[string]string{"fillcolor": "lemonchiffon"}, rec.Custom)
	assert.Equal(t, []string{"description", "tags", "user", "graph_hidden_links", "CACHE"}, rec.Ignored)

	require.Len(t, rec.Components, 2)
	backend := rec.Components[0]
	assert.Equal(t, "BACKEND", backend.Name)
	assert.Equal(t, 11, backend.Line)
	require.Len(t, backend.Dependencies, 2)
	assert.Equal(t, "P.A.DATABASE", backend.Dependencies[0].Component)
	assert.Equal(t, "mysql", backend.Dependencies[0].Service)
	assert.Equal(t, 13, backend.Dependencies[0].Line)
	assert.Equal(t, "memcache", backend.Dependencies[1].Service)

	assert.Equal(t, "DATABASE", rec.Components[1].Name)
	assert.Empty(t, rec.Components[1].Dependencies)
}

func TestParseApplicationBytes_Empty(t *testing.T) {
	for _, data := range []string{"", "\n", "~\n", "# only a comment\n"} {
		rec, err := ParseApplicationBytes([]byte(data), "A.yml")
		require.NoError(t, err, "input %q", data)
		assert.Empty(t, rec.Components)
		assert.Nil(t, rec.Custom)
	}
}

func TestParseApplicationBytes_NullCustomization(t *testing.T) {
	rec, err := ParseApplicationBytes([]byte("graph_customization:\n"), "A.yml")
	require.NoError(t, err)
	assert.NotNil(t, rec.Custom, "an explicit empty customization overrides the project's")
	assert.Empty(t, rec.Custom)
}

func TestParseApplicationBytes_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		line  int
		field string
	}{
		{
			name: "root is a list",
			data: "- a\n- b\n",
			line: 1,
		},
		{
			name:  "dependencies not a list",
			data:  "C:\n  dependencies: P.A.B\n",
			line:  2,
			field: "dependencies",
		},
		{
			name:  "dependency not a mapping",
			data:  "C:\n  dependencies:\n    - P.A.B\n",
			line:  3,
			field: "dependencies",
		},
		{
			name:  "customization not a mapping",
			data:  "graph_customization: [a, b]\n",
			line:  1,
			field: "graph_customization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseApplicationBytes([]byte(tt.data), "A.yml")

			var cfgErr *catalog.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "A.yml", cfgErr.File)
			assert.Equal(t, tt.line, cfgErr.Line)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParseApplicationBytes_AnchorsAndMergeKeys(t *testing.T) {
	data := []byte(`base: &base
  dependencies:
    - &db
      component: P.A.DB
      service: mysql
WEB: *base
API:
  <<: *base
WORKER:
  dependencies:
    - *db
    - component: P.A.QUEUE
      service: amqp
CRON:
  <<: [*base]
  dependencies: []
`)

	rec, err := ParseApplicationBytes(data, "A.yml")
	require.NoError(t, err)
	assert.Empty(t, rec.Ignored)

	deps := map[string][]string{}
	var names []string
	for _, comp := range rec.Components {
		names = append(names, comp.Name)
		deps[comp.Name] = []string{}
		for _, dep := range comp.Dependencies {
			deps[comp.Name] = append(deps[comp.Name], dep.Component+"/"+dep.Service)
		}
	}

	assert.Equal(t, []string{"base", "WEB", "API", "WORKER", "CRON"}, names)
	assert.Equal(t, []string{"P.A.DB/mysql"}, deps["WEB"], "alias to a component mapping")
	assert.Equal(t, []string{"P.A.DB/mysql"}, deps["API"], "dependencies inherited through a merge key")
	assert.Equal(t, []string{"P.A.DB/mysql", "P.A.QUEUE/amqp"}, deps["WORKER"], "alias dependency item")
	assert.Empty(t, deps["CRON"], "explicit keys win over merged ones")

	assert.Equal(t, 6, rec.Components[1].Line)
	assert.Equal(t, 11, rec.Components[3].Dependencies[0].Line)
}

func TestParseApplicationBytes_MergeKeyErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"scalar source", "C:\n  <<: P.A.B\n"},
		{"list of scalars", "C:\n  <<: [a, b]\n"},
		{"recursive", "C: &c\n  <<: *c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseApplicationBytes([]byte(tt.data), "A.yml")

			var cfgErr *catalog.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "A.yml", cfgErr.File)
		})
	}
}

func TestParseApplicationBytes_Syntax(t *testing.T) {
	_, err := ParseApplicationBytes([]byte("C: [unclosed\n"), "A.yml")

	var cfgErr *catalog.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "failed to parse YAML")
}

func TestParseProjectBytes(t *testing.T) {
	data := []byte(`domain: project2.test
team: devs
user:
  group: adm
graph_customization:
  color: royalblue4
graph_hidden_links:
  - parent: P.A.DB
    child: P.A.FRONT
`)

	rec, err := ParseProjectBytes(data, "defaults.yml")
	require.NoError(t, err)

	assert.Equal(t, "project2.test", rec.Domain)
	assert.Equal(t, "devs", rec.Team)
	assert.Equal(t, &catalog.User{Group: "adm"}, rec.User)
	assert.Equal(t, "royalblue4", rec.Custom["color"])
	assert.Equal(t, []catalog.HiddenLink{{Parent: "P.A.DB", Child: "P.A.FRONT"}}, rec.HiddenLinks)
}

func TestParseProjectBytes_Empty(t *testing.T) {
	rec, err := ParseProjectBytes(nil, "defaults.yml")
	require.NoError(t, err)
	assert.Equal(t, &catalog.ProjectRecord{}, rec)
}

func TestParseProjectBytes_Invalid(t *testing.T) {
	_, err := ParseProjectBytes([]byte("team: [a\n"), "defaults.yml")

	var cfgErr *catalog.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "defaults.yml", cfgErr.File)
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	appPath := filepath.Join(dir, "APP.yml")
	require.NoError(t, os.WriteFile(appPath, []byte("C: {}\n"), 0644))

	rec, err := ParseApplication(appPath)
	require.NoError(t, err)
	assert.Equal(t, appPath, rec.File)
	assert.Len(t, rec.Components, 1)

	_, err = ParseApplication(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ParseProject(filepath.Join(dir, "defaults.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
