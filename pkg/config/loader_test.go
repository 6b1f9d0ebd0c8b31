package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
api:
  base_url: "https://api.brickedup.example"
  timeout: "30s"
store:
  type: "memory"
logging:
  level: "debug"
`)

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.brickedup.example", cfg.API.BaseURL)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "debug", cfg.Logging.Level)

	timeout, err := cfg.API.GetTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, "30s", timeout.String())
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "api": {"base_url": "http://localhost:3100"},
  "store": {"type": "memory"}
}`)

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3100", cfg.API.BaseURL)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
api:
  base_url: "http://localhost:3100"
`)

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "15s", cfg.API.Timeout)
	assert.Equal(t, "leveldb", cfg.Store.Type)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("BRICKEDUP_API", "https://api.brickedup.example")

	path := writeConfig(t, "config.yaml", `
api:
  base_url: "${BRICKEDUP_API}"
store:
  type: "${BRICKEDUP_STORE:-memory}"
`)

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.brickedup.example", cfg.API.BaseURL)
	assert.Equal(t, "memory", cfg.Store.Type)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "whatever")

	_, err := NewFileLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", "api: [broken")

	_, err := NewFileLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}
