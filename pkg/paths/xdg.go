// Package paths provides XDG-compliant path resolution for deck.
//
// Resolution order:
// 1. DECK_HOME (portable root) → $DECK_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/deck
// 3. Platform defaults → ~/.config/deck, ~/.local/state/deck
package paths

import (
	"os"
	"path/filepath"
)

const appDir = "deck"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if deckHome := os.Getenv("DECK_HOME"); deckHome != "" {
		return filepath.Join(deckHome, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if deckHome := os.Getenv("DECK_HOME"); deckHome != "" {
		return filepath.Join(deckHome, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the deck configuration directory.
// Used for deck.yml / deck.toml and their overrides.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	if os.Getenv("DECK_HOME") != "" {
		return base
	}
	return filepath.Join(base, appDir)
}

// StateDir returns the deck state directory.
// Used for persisted application state and logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	if os.Getenv("DECK_HOME") != "" {
		return base
	}
	return filepath.Join(base, appDir)
}

// StorageDir returns the default location of the persistence backend.
func StorageDir() string {
	return filepath.Join(StateDir(), "store")
}

// LogsDir returns the default directory for log files.
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}

// EnsureDirs creates the deck directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
