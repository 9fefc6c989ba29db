package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logica-lang/logica/config"
)

func TestNewNoFile(t *testing.T) {
	c, err := config.New("")
	require.NoError(t, err)
	assert.Empty(t, c.Engine)
	assert.Empty(t, c.ImportRoots)
}

func TestNewFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logica.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: sqlite\nimport_roots: [\"/a\", \"/b\"]\n"), 0o644))

	c, err := config.New(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Engine)
	assert.Equal(t, []string{"/a", "/b"}, c.ImportRoots)
}

func TestOptionsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logica.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: sqlite\n"), 0o644))

	c, err := config.New(path, config.WithEngine("duckdb"), config.WithImportRoots("/extra"))
	require.NoError(t, err)
	assert.Equal(t, "duckdb", c.Engine)
	assert.Equal(t, []string{"/extra"}, c.ImportRoots)
}

func TestLogicapathAppendsToImportRoots(t *testing.T) {
	t.Setenv("LOGICAPATH", "/x:/y")
	c, err := config.New("", config.WithImportRoots("/z"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/z", "/x", "/y"}, c.ImportRoots)
}

func TestWithFlag(t *testing.T) {
	c, err := config.New("", config.WithFlag("debug", "true"))
	require.NoError(t, err)
	assert.Equal(t, "true", c.Flags["debug"])
}
