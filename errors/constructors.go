package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *DeckError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *DeckError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// EntityNotFound creates an error for an id that does not resolve
func EntityNotFound(kind string, id string) *DeckError {
	return New(ErrCodeEntityNotFound, fmt.Sprintf("%s '%s' not found", kind, id)).
		WithDetail("kind", kind).
		WithDetail("id", id)
}

// StateCorrupted creates an error for a persisted snapshot that cannot be decoded
func StateCorrupted(key string, ver int, err error) *DeckError {
	return Wrap(err, ErrCodeStateCorrupted,
		fmt.Sprintf("persisted state '%s' (version %d) cannot be decoded", key, ver)).
		WithDetail("key", key).
		WithDetail("version", ver)
}

// MigrationFailed creates an error for a snapshot that cannot be migrated
func MigrationFailed(from, to int, err error) *DeckError {
	return Wrap(err, ErrCodeMigrationFailed,
		fmt.Sprintf("cannot migrate persisted state from version %d to %d", from, to)).
		WithDetail("from", from).
		WithDetail("to", to)
}

// PersistenceRead creates a backend read failure error
func PersistenceRead(key string, err error) *DeckError {
	return Wrap(err, ErrCodePersistenceRead, fmt.Sprintf("failed to read '%s'", key)).
		WithDetail("key", key)
}

// PersistenceWrite creates a backend write failure error
func PersistenceWrite(key string, err error) *DeckError {
	return Wrap(err, ErrCodePersistenceWrite, fmt.Sprintf("failed to write '%s'", key)).
		WithDetail("key", key)
}

// InvalidInput creates an invalid input error
func InvalidInput(reason string) *DeckError {
	return New(ErrCodeInvalidInput, reason)
}
