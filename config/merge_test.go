package config

import (
	"testing"

	"github.com/grovetools/deck/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestMergeConfigs(t *testing.T) {
	tests := []struct {
		name     string
		base     *Config
		override *Config
		check    func(t *testing.T, got *Config)
	}{
		{
			name:     "nil override keeps base",
			base:     &Config{Version: "1.0"},
			override: nil,
			check: func(t *testing.T, got *Config) {
				assert.Equal(t, "1.0", got.Version)
			},
		},
		{
			name: "storage fields override individually",
			base: &Config{Storage: &StorageConfig{Backend: "file", Path: "/a", DebounceMs: models.Int(100)}},
			override: &Config{Storage: &StorageConfig{Backend: "sqlite"}},
			check: func(t *testing.T, got *Config) {
				assert.Equal(t, "sqlite", got.Storage.Backend)
				assert.Equal(t, "/a", got.Storage.Path)
				assert.Equal(t, 100, *got.Storage.DebounceMs)
			},
		},
		{
			name: "memsaver merges per field",
			base: &Config{MemSaver: &models.MemSaverConfig{WorkflowInactiveAfter: models.Int(5)}},
			override: &Config{MemSaver: &models.MemSaverConfig{
				ActivateWorkflowsOnProjectSwitch: models.Bool(true),
			}},
			check: func(t *testing.T, got *Config) {
				assert.Equal(t, 5, *got.MemSaver.WorkflowInactiveAfter)
				assert.True(t, *got.MemSaver.ActivateWorkflowsOnProjectSwitch)
			},
		},
		{
			name: "extension maps merge one level deep",
			base: &Config{Extensions: map[string]interface{}{
				"logging": map[string]interface{}{"level": "info", "report_caller": true},
				"plain":   "a",
			}},
			override: &Config{Extensions: map[string]interface{}{
				"logging": map[string]interface{}{"level": "debug"},
				"plain":   "b",
			}},
			check: func(t *testing.T, got *Config) {
				assert.Equal(t, map[string]interface{}{"level": "debug", "report_caller": true}, got.Extensions["logging"])
				assert.Equal(t, "b", got.Extensions["plain"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, mergeConfigs(tt.base, tt.override))
		})
	}
}

func TestMergeDoesNotMutateBase(t *testing.T) {
	base := &Config{Storage: &StorageConfig{Backend: "file"}}
	mergeConfigs(base, &Config{Storage: &StorageConfig{Backend: "sqlite"}})
	assert.Equal(t, "file", base.Storage.Backend)
}
