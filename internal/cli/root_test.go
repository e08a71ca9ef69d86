package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-list/internal/store"
)

func testConfig(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"TODO_CONFIG", "STORE_DSN", "TODO_DB_DRIVER", "TODO_HTTP_ADDR", "TODO_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.yaml")
	content := "database:\n  driver: sqlite3\n  dsn: " + filepath.Join(dir, "todo.db") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "status", "list", "add", "complete", "export", "config"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestItemCommands(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No items in list")

	out, err = run(t, "--config", cfg, "add", "Buy milk")
	require.NoError(t, err)
	assert.Contains(t, out, `added "Buy milk"`)

	out, err = run(t, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 [ ] Buy milk")

	out, err = run(t, "--config", cfg, "complete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "completed #1")

	out, err = run(t, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 [x] Buy milk")

	_, err = run(t, "--config", cfg, "complete", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 42 not found")
}

func TestExportCommand(t *testing.T) {
	cfg := testConfig(t)
	_, err := run(t, "--config", cfg, "add", "Walk dog")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "export")
	require.NoError(t, err)
	var items []store.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Walk dog", items[0].Text)

	path := filepath.Join(t.TempDir(), "items.csv")
	out, err = run(t, "--config", cfg, "export", "--format", "csv", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported -> "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Walk dog")

	_, err = run(t, "--config", cfg, "export", "--format", "xml")
	assert.Error(t, err)
}

func TestMigrateCommand(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, "--config", cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "applied 20150517013915")

	out, err = run(t, "--config", cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")
}

func TestStatusCommand(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, "--config", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "driver:  sqlite3")
	assert.Contains(t, out, "applied: none")
	assert.Contains(t, out, "pending: 20150517013915")

	_, err = run(t, "--config", cfg, "migrate")
	require.NoError(t, err)
	out, err = run(t, "--config", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "applied: 20150517013915")
	assert.Contains(t, out, "pending: none")
}

func TestMigrateMemory(t *testing.T) {
	testConfig(t)
	t.Setenv("TODO_DB_DRIVER", "memory")
	path := filepath.Join(t.TempDir(), "todo.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"error\"\n"), 0644))

	out, err := run(t, "--config", path, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "memory store needs no migrations")
}

func TestBadConfig(t *testing.T) {
	testConfig(t)
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "list")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	testConfig(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "todo.yaml")
	out, err := run(t, "config", "init", "--driver", "memory", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote config -> "+path)

	out, err = run(t, "--config", path, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No items in list")

	_, err = run(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "config", "init", "--force", "--driver", "oracle", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")

	tomlPath := filepath.Join(dir, "todo.toml")
	_, err = run(t, "--config", tomlPath, "config", "init", "--driver", "mysql")
	require.NoError(t, err)
	data, err := os.ReadFile(tomlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[database]")
	assert.Contains(t, string(data), `driver = "mysql"`)
}
