package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/pkg/paths"
	"github.com/grovetools/deck/pkg/persist"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Defaults applied by SetDefaults.
const (
	DefaultBackend  = persist.KindFile
	DefaultDebounce = 500 * time.Millisecond
)

// OverlayEnv names a config file applied on top of every other layer.
const OverlayEnv = "DECK_CONFIG_OVERLAY"

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

var (
	globalNames   = []string{"deck.yml", "deck.yaml", "deck.toml"}
	overrideNames = []string{"deck.override.yml", "deck.override.yaml", "deck.override.toml"}
)

// IsConfigFile reports whether base names a global or override config file.
func IsConfigFile(base string) bool {
	for _, names := range [][]string{globalNames, overrideNames} {
		for _, name := range names {
			if base == name {
				return true
			}
		}
	}
	return false
}

// Load reads and parses a single deck configuration file, applying defaults
// and validation.
func Load(path string) (*Config, error) {
	cfg, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	return finalize(cfg)
}

// LoadFromBytes parses YAML configuration from a byte array
func LoadFromBytes(data []byte) (*Config, error) {
	cfg, err := parseConfig(data, ".yml")
	if err != nil {
		return nil, err
	}
	return finalize(cfg)
}

// LoadDefault loads the configuration from the deck config directory with
// hierarchical merging:
// 1. Global config (~/.config/deck/deck.yml) - base layer
// 2. Local override (deck.override.yml) - overrides global
// 3. $DECK_CONFIG_OVERLAY - overrides all
func LoadDefault() (*Config, error) {
	return LoadFrom(paths.ConfigDir())
}

// LoadFrom loads configuration with hierarchical merging from configDir
func LoadFrom(configDir string) (*Config, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return LoadFromWithLogger(configDir, logger)
}

// LoadFromWithLogger loads configuration with hierarchical merging and logging
func LoadFromWithLogger(configDir string, logger *logrus.Logger) (*Config, error) {
	layered, err := loadLayers(configDir, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded and validated successfully")
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if configData, err := yaml.Marshal(layered.Final); err == nil {
			logger.Debugf("Merged configuration:\n%s", string(configData))
		}
	}
	return layered.Final, nil
}

// LoadLayered loads all configuration layers without merging them, for
// analysis purposes. It also computes the final merged config.
func LoadLayered(configDir string) (*LayeredConfig, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return loadLayers(configDir, logger)
}

func loadLayers(configDir string, logger *logrus.Logger) (*LayeredConfig, error) {
	layered := &LayeredConfig{
		FilePaths: make(map[ConfigSource]string),
	}

	defaultCfg := &Config{}
	defaultCfg.SetDefaults()
	layered.Default = defaultCfg

	// 1. Global layer (optional)
	if globalPath := findFirst(configDir, globalNames); globalPath != "" {
		logger.WithField("path", globalPath).Debug("Loading global configuration")
		globalCfg, err := loadRaw(globalPath)
		if err != nil {
			return nil, err
		}
		layered.Global = globalCfg
		layered.FilePaths[SourceGlobal] = globalPath
	}

	// 2. Override layer (optional)
	if overridePath := findFirst(configDir, overrideNames); overridePath != "" {
		logger.WithField("path", overridePath).Debug("Loading override configuration")
		overrideCfg, err := loadRaw(overridePath)
		if err != nil {
			logger.WithError(err).Warn("Failed to parse override file, skipping")
		} else {
			layered.Override = &OverrideSource{Path: overridePath, Config: overrideCfg}
			layered.FilePaths[SourceOverride] = overridePath
		}
	}

	// 3. Env overlay (optional)
	if overlayPath := os.Getenv(OverlayEnv); overlayPath != "" {
		if _, err := os.Stat(overlayPath); err == nil {
			logger.WithField("path", overlayPath).Debug("Loading overlay configuration")
			overlayCfg, err := loadRaw(overlayPath)
			if err != nil {
				return nil, err
			}
			layered.EnvOverlay = &OverrideSource{Path: overlayPath, Config: overlayCfg}
			layered.FilePaths[SourceEnvOverlay] = overlayPath
		} else {
			logger.WithField("path", overlayPath).Warn("Overlay configuration not found, skipping")
		}
	}

	finalConfig := &Config{}
	if layered.Global != nil {
		finalConfig = mergeConfigs(finalConfig, layered.Global)
	}
	if layered.Override != nil {
		finalConfig = mergeConfigs(finalConfig, layered.Override.Config)
	}
	if layered.EnvOverlay != nil {
		finalConfig = mergeConfigs(finalConfig, layered.EnvOverlay.Config)
	}

	final, err := finalize(finalConfig)
	if err != nil {
		return nil, err
	}
	layered.Final = final
	return layered, nil
}

// finalize applies defaults, then runs structural and schema validation.
func finalize(cfg *Config) (*Config, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}
	return cfg, nil
}

// loadRaw reads and parses a file without defaults or validation.
func loadRaw(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	cfg, err := parseConfig(data, filepath.Ext(path))
	if err != nil {
		if deckErr, ok := errors.As(err); ok {
			return nil, deckErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// parseConfig decodes YAML or TOML (chosen by ext) into a Config. Keys that
// are not Config fields are kept in Extensions.
func parseConfig(data []byte, ext string) (*Config, error) {
	expanded := expandEnvVars(string(data))

	raw := make(map[string]interface{})
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}

	known := make(map[string]interface{})
	var cfg Config
	for key, value := range raw {
		if knownKeys[key] {
			known[key] = value
			continue
		}
		if cfg.Extensions == nil {
			cfg.Extensions = make(map[string]interface{})
		}
		cfg.Extensions[key] = value
	}

	if err := decodeInto(known, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
	}
	return &cfg, nil
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

func findFirst(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func defaultStoragePath() string {
	return paths.StorageDir()
}
