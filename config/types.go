package config

import (
	"fmt"
	"time"

	"github.com/grovetools/deck/pkg/models"
	"github.com/mitchellh/mapstructure"
)

// StorageConfig selects and tunes the persistence backend.
type StorageConfig struct {
	Backend    string `yaml:"backend,omitempty" toml:"backend,omitempty" jsonschema:"description=Persistence backend,enum=file,enum=sqlite,enum=memory"`
	Path       string `yaml:"path,omitempty" toml:"path,omitempty" jsonschema:"description=Directory (file) or database path (sqlite) holding persisted state"`
	DebounceMs *int   `yaml:"debounce_ms,omitempty" toml:"debounce_ms,omitempty" jsonschema:"minimum=0,description=Quiet period in milliseconds before state is written (default: 500)"`
}

// Debounce returns the configured quiet period.
func (s *StorageConfig) Debounce() time.Duration {
	if s == nil || s.DebounceMs == nil {
		return DefaultDebounce
	}
	return time.Duration(*s.DebounceMs) * time.Millisecond
}

// Config represents the deck.yml / deck.toml configuration
type Config struct {
	Version  string                 `yaml:"version" toml:"version" jsonschema:"description=Configuration version (e.g. 1.0)"`
	Storage  *StorageConfig         `yaml:"storage,omitempty" toml:"storage,omitempty" jsonschema:"description=Where and how often application state is persisted"`
	MemSaver *models.MemSaverConfig `yaml:"memsaver,omitempty" toml:"memsaver,omitempty" jsonschema:"description=App level MemSaver settings. Set fields replace the persisted app settings"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// knownKeys are the top-level keys decoded into Config fields. Everything
// else lands in Extensions.
var knownKeys = map[string]bool{
	"version":  true,
	"storage":  true,
	"memsaver": true,
}

// SetDefaults sets default values for configuration. MemSaver is left alone:
// an unset field there means "keep the persisted app setting".
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Storage.Path == "" {
		c.Storage.Path = defaultStoragePath()
	}
	if c.Storage.DebounceMs == nil {
		ms := int(DefaultDebounce / time.Millisecond)
		c.Storage.DebounceMs = &ms
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded deck.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// Missing keys leave the target zero-valued.
		return nil
	}

	if err := decodeInto(extensionConfig, target); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}
	return nil
}

// decodeInto runs mapstructure over a generic value using yaml tags, so the
// same struct definitions serve YAML and TOML sources.
func decodeInto(input interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	return decoder.Decode(input)
}

// ConfigSource identifies the origin of a configuration value.
type ConfigSource string

const (
	SourceDefault    ConfigSource = "default"
	SourceGlobal     ConfigSource = "global"
	SourceOverride   ConfigSource = "override"
	SourceEnvOverlay ConfigSource = "env-overlay" // DECK_CONFIG_OVERLAY
)

// OverrideSource holds a raw configuration from an override file and its path.
type OverrideSource struct {
	Path   string
	Config *Config
}

// LayeredConfig holds the raw configuration from each source file,
// as well as the final merged configuration, for analysis purposes.
type LayeredConfig struct {
	Default    *Config                 // Config with only default values applied.
	Global     *Config                 // Raw config from the global file.
	Override   *OverrideSource         // Raw config from deck.override.*.
	EnvOverlay *OverrideSource         // Raw config from DECK_CONFIG_OVERLAY.
	Final      *Config                 // The fully merged and validated config.
	FilePaths  map[ConfigSource]string // Maps sources to their file paths.
}
