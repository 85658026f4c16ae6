package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/simonhull/firebird-suite/weaver/pkg/output"
	"github.com/simonhull/firebird-suite/weaver/pkg/userdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture returns the absolute path of a loader test tree and moves the
// test into an empty working directory, away from any weaver.yaml
func fixture(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "pkg", "loader", "testdata", name))
	require.NoError(t, err)
	t.Chdir(t.TempDir())
	return path
}

func runCLI(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { output.SetWriter(nil) })

	var stdout, stderr bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, context.Background(), args...)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "Weaver v0.1.0\n", out)
}

func TestList(t *testing.T) {
	projects := fixture(t, "valid_projects")

	out, err := run(t, "list", "--projects", projects)
	require.NoError(t, err)

	assert.Contains(t, out, "PROJECT_1\n")
	assert.Contains(t, out, "PROJECT_2 (team: devs, domain: project2.test)")
	assert.Contains(t, out, "PROJECT_2.WEBSITE_v2")
	assert.Contains(t, out, "ELASTICSEARCH")
	assert.Contains(t, out, "3 projects, 12 components")

	out, err = run(t, "list", "PROJECT_3", "-p", projects)
	require.NoError(t, err)
	assert.Contains(t, out, "1 projects, 3 components")

	_, err = run(t, "list", "PROJECT_9", "-p", projects)
	assert.ErrorContains(t, err, "project PROJECT_9 not found")
}

func TestList_NoProjects(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "list", "--projects", ".")
	assert.ErrorContains(t, err, "no project directory found")
}

func TestShow(t *testing.T) {
	projects := fixture(t, "valid_projects")

	out, err := run(t, "show", "PROJECT_2.WEBSITE_v2.BACKEND", "-p", projects)
	require.NoError(t, err)
	assert.Contains(t, out, "Parents (3)")
	assert.Contains(t, out, "PROJECT_2.WEBSITE_v1.DATABASE (mysql)")
	assert.Contains(t, out, "PROJECT_3.API.FRONTEND (http)")
	assert.Contains(t, out, "Children (0)")

	out, err = run(t, "show", "PROJECT_2.WEBSITE_v1.DATABASE", "-p", projects)
	require.NoError(t, err)
	assert.Contains(t, out, "Children (3)")
	assert.Contains(t, out, "PROJECT_2.WEBSITE_v2.BACKEND")

	_, err = run(t, "show", "PROJECT_2.WEBSITE_v1.NOPE", "-p", projects)
	assert.ErrorContains(t, err, "not found")
}

func TestCheck(t *testing.T) {
	projects := fixture(t, "valid_projects")

	out, err := run(t, "check", "-p", projects)
	require.NoError(t, err)
	assert.Contains(t, out, "3 projects, 12 components, all dependencies resolved")
}

func TestCheck_Unresolved(t *testing.T) {
	projects := fixture(t, filepath.Join("invalid_projects", "1"))

	out, err := run(t, "check", "-p", projects)
	assert.ErrorContains(t, err, "1 unresolved dependencies")
	assert.Contains(t, out, "PROJECT.APPLI.MISSING not found to resolve PROJECT.APPLI.COMPO dependency")
}

func TestCheck_ConfigError(t *testing.T) {
	projects := fixture(t, filepath.Join("invalid_projects", "2"))

	_, err := run(t, "check", "-p", projects)
	assert.ErrorContains(t, err, `field "service"`)
}

func TestGraph(t *testing.T) {
	projects := fixture(t, "valid_projects")

	out, err := run(t, "graph", "PROJECT_2", "-p", projects)
	require.NoError(t, err)
	assert.Contains(t, out, `digraph "Detailed dependencies for PROJECT_2" {`)
	assert.Contains(t, out, `"PROJECT_2.WEBSITE_v1.BACKEND" -> "PROJECT_2.WEBSITE_v1.FRONTEND" [label="http"];`)
	assert.Contains(t, out, `"PROJECT_3.API.FRONTEND" -> "PROJECT_2.WEBSITE_v2.BACKEND" [label="http"];`)
	assert.NotContains(t, out, `"PROJECT_2.WEBSITE_v1.DATABASE" -> "PROJECT_2.WEBSITE_v1.FRONTEND"`, "hidden link must not be drawn")
	assert.Contains(t, out, `fillcolor="lemonchiffon";`)
}

func TestGraph_YAML(t *testing.T) {
	projects := fixture(t, "valid_projects")

	out, err := run(t, "graph", "PROJECT_1", "-p", projects, "--format", "yaml", "--title", "{{ .Project }} overview")
	require.NoError(t, err)
	assert.Contains(t, out, "title: PROJECT_1 overview\n")
	assert.Contains(t, out, "PROJECT_1.WEBSITE:\n")
	assert.Contains(t, out, "- PROJECT_1.WEBSITE.FRONTEND\n")
}

func TestGraph_FilterToFile(t *testing.T) {
	projects := fixture(t, "valid_projects")
	outFile := filepath.Join(t.TempDir(), "backend.dot")

	out, err := run(t, "graph", "PROJECT_1", "-p", projects,
		"--component", "PROJECT_1.WEBSITE.BACKEND", "--out", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Diagram written to "+outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"PROJECT_1.WEBSITE.BACKEND" [label="BACKEND"`)
	assert.NotContains(t, string(data), `"PROJECT_1.WEBSITE.FRONTEND" [label=`)
}

func TestGraph_Errors(t *testing.T) {
	projects := fixture(t, "valid_projects")

	_, err := run(t, "graph", "PROJECT_9", "-p", projects)
	assert.ErrorContains(t, err, "project not found")

	_, err = run(t, "graph", "PROJECT_1", "-p", projects, "--component", "PROJECT_1.WEBSITE.NOPE")
	assert.ErrorContains(t, err, "component PROJECT_1.WEBSITE.NOPE not found")

	_, err = run(t, "graph", "PROJECT_1", "-p", projects, "--format", "svg")
	assert.ErrorContains(t, err, "unsupported graph format")
}

func TestUserdata(t *testing.T) {
	projects := fixture(t, "valid_projects")

	out, err := run(t, "userdata", "PROJECT_1.WEBSITE.FRONTEND", "-p", projects)
	require.NoError(t, err)
	assert.Equal(t, "# Flat user-data usage\n\nPROJECT_1_WEBSITE_BACKEND_http_url=${PROJECT_1_WEBSITE_BACKEND_http_url}\n", out)

	out, err = run(t, "userdata", "PROJECT_3.API.FRONTEND", "-p", projects)
	require.NoError(t, err)
	assert.Contains(t, out, "PROJECT_3_API_MEMCACHE_memcache_port=${PROJECT_3_API_MEMCACHE_memcache_port}\n")
	assert.Contains(t, out, "PROJECT_3_API_DATABASE_mysql_database=${PROJECT_3_API_DATABASE_mysql_database}\n")

	_, err = run(t, "userdata", "PROJECT_1.WEBSITE.FRONTEND", "-p", projects, "--format", "json")
	assert.ErrorIs(t, err, userdata.ErrUnsupportedFormat)
}

func TestUserdata_ToFile(t *testing.T) {
	projects := fixture(t, "valid_projects")

	_, err := run(t, "userdata", "PROJECT_1.WEBSITE.BACKEND", "-p", projects, "--out", "backend.env")
	require.NoError(t, err)

	data, err := os.ReadFile("backend.env")
	require.NoError(t, err)
	assert.Contains(t, string(data), "PROJECT_1_WEBSITE_DATABASE_mysql_user=${PROJECT_1_WEBSITE_DATABASE_mysql_user}")
}

func TestOutputFileKeptOnFailure(t *testing.T) {
	projects := fixture(t, "valid_projects")
	require.NoError(t, os.WriteFile("previous.env", []byte("KEEP=1\n"), 0644))

	_, err := run(t, "userdata", "PROJECT_1.WEBSITE.FRONTEND", "-p", projects, "--format", "json", "--out", "previous.env")
	require.ErrorIs(t, err, userdata.ErrUnsupportedFormat)

	_, err = run(t, "graph", "PROJECT_1", "-p", projects, "--format", "svg", "--out", "previous.env")
	require.Error(t, err)

	data, err := os.ReadFile("previous.env")
	require.NoError(t, err)
	assert.Equal(t, "KEEP=1\n", string(data))
}

func TestUserdata_EmptyOutIsStdout(t *testing.T) {
	projects := fixture(t, "valid_projects")

	out, err := run(t, "userdata", "PROJECT_1.WEBSITE.FRONTEND", "-p", projects, "--out", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, userdata.FlatHeader), out)
	assert.NotContains(t, out, "written to")
}

func TestConfigInit(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created weaver.yaml")
	assert.FileExists(t, "weaver.yaml")

	_, err = run(t, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, "config", "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Overwriting weaver.yaml")
}

func TestConfigFileAndEnv(t *testing.T) {
	projects := fixture(t, "valid_projects")
	content := "projects_path: " + projects + "\nservices:\n  default: [endpoint]\n"
	require.NoError(t, os.WriteFile("weaver.yaml", []byte(content), 0644))

	// memcache is not in the table and falls back to the overridden default
	out, err := run(t, "userdata", "PROJECT_3.API.FRONTEND")
	require.NoError(t, err)
	assert.Contains(t, out, "PROJECT_3_API_MEMCACHE_memcache_endpoint=${PROJECT_3_API_MEMCACHE_memcache_endpoint}\n")
	assert.NotContains(t, out, "memcache_host")
	assert.Contains(t, out, "PROJECT_3_API_DATABASE_mysql_host=", "table entries from the defaults are kept")

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "projects_path: "+projects)

	t.Setenv("WEAVER_PROJECTS_PATH", filepath.Join(projects, "missing"))
	_, err = run(t, "list")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	projects := fixture(t, "valid_projects")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := runCLI(t, ctx, "watch", "-p", projects)
		done <- err
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
