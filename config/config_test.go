package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/deck/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromBytesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`version: "1.0"`))
	require.NoError(t, err)

	assert.Equal(t, "1.0", cfg.Version)
	require.NotNil(t, cfg.Storage)
	assert.Equal(t, DefaultBackend, cfg.Storage.Backend)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.Equal(t, DefaultDebounce, cfg.Storage.Debounce())
	assert.Nil(t, cfg.MemSaver, "memsaver must stay unset so persisted settings win")
}

func TestExtensions(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
version: "1.0"
logging:
  level: debug
  report_caller: true
monitoring:
  enabled: true
  interval: 30
`))
	require.NoError(t, err)

	type LoggingConfig struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	var logCfg LoggingConfig
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	type MonitoringConfig struct {
		Enabled  bool `yaml:"enabled"`
		Interval int  `yaml:"interval"`
	}
	var monCfg MonitoringConfig
	require.NoError(t, cfg.UnmarshalExtension("monitoring", &monCfg))
	assert.True(t, monCfg.Enabled)
	assert.Equal(t, 30, monCfg.Interval)

	var missing LoggingConfig
	require.NoError(t, cfg.UnmarshalExtension("nonexistent", &missing))
	assert.Empty(t, missing.Level)
}

func TestParseTOML(t *testing.T) {
	cfg, err := parseConfig([]byte(`
version = "1.0"

[storage]
backend = "sqlite"
debounce_ms = 250

[memsaver]
workflow_inactive_after = 5
activate_workflows_on_project_switch = true

[logging]
level = "warn"
`), ".toml")
	require.NoError(t, err)

	require.NotNil(t, cfg.Storage)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Storage.Debounce())
	require.NotNil(t, cfg.MemSaver)
	assert.Equal(t, 5, *cfg.MemSaver.WorkflowInactiveAfter)
	assert.True(t, *cfg.MemSaver.ActivateWorkflowsOnProjectSwitch)
	assert.Contains(t, cfg.Extensions, "logging")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DECK_TEST_DIR", "/tmp/deck-state")

	cfg, err := LoadFromBytes([]byte(`
storage:
  path: ${DECK_TEST_DIR}
  backend: ${DECK_TEST_UNSET:-memory}
`))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/deck-state", cfg.Storage.Path)
	assert.Equal(t, "memory", cfg.Storage.Backend)
}

func TestLoadLayered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deck.yml", `
version: "1.0"
storage:
  backend: sqlite
  debounce_ms: 1000
memsaver:
  workflow_inactive_after: 10
`)
	overridePath := writeFile(t, dir, "deck.override.toml", `
[memsaver]
activate_workflows_on_project_switch = true

[storage]
debounce_ms = 50
`)
	overlayDir := t.TempDir()
	overlayPath := writeFile(t, overlayDir, "overlay.yml", `
storage:
  backend: memory
`)
	t.Setenv(OverlayEnv, overlayPath)

	layered, err := LoadLayered(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "deck.yml"), layered.FilePaths[SourceGlobal])
	assert.Equal(t, overridePath, layered.FilePaths[SourceOverride])
	assert.Equal(t, overlayPath, layered.FilePaths[SourceEnvOverlay])
	require.NotNil(t, layered.Default)
	require.NotNil(t, layered.Global)
	assert.Equal(t, "sqlite", layered.Global.Storage.Backend)

	final := layered.Final
	assert.Equal(t, "memory", final.Storage.Backend)
	assert.Equal(t, 50*time.Millisecond, final.Storage.Debounce())
	require.NotNil(t, final.MemSaver)
	assert.Equal(t, 10, *final.MemSaver.WorkflowInactiveAfter)
	assert.True(t, *final.MemSaver.ActivateWorkflowsOnProjectSwitch)
}

func TestLoadFromEmptyDir(t *testing.T) {
	t.Setenv(OverlayEnv, "")
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultBackend, cfg.Storage.Backend)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "deck.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deck.yml", "storage: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestIsConfigFile(t *testing.T) {
	for name, want := range map[string]bool{
		"deck.yml":           true,
		"deck.toml":          true,
		"deck.override.yaml": true,
		"other.yml":          false,
		"deck.json":          false,
	} {
		assert.Equal(t, want, IsConfigFile(name), name)
	}
}
