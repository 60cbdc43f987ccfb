package config

import (
	"fmt"
	"strings"

	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/pkg/models"
	"github.com/grovetools/deck/pkg/persist"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validateStorage(c.Storage); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid storage configuration")
	}
	if c.MemSaver != nil {
		if v := c.MemSaver.WorkflowInactiveAfter; v != nil && *v < models.InactiveNever {
			return errors.New(errors.ErrCodeConfigValidation,
				fmt.Sprintf("memsaver.workflow_inactive_after must be -1 or greater, got %d", *v)).
				WithDetail("workflow_inactive_after", *v)
		}
	}
	return nil
}

func validateStorage(s *StorageConfig) error {
	if s == nil {
		return nil
	}
	if s.Backend != "" && !isKnownBackend(s.Backend) {
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("unknown backend %q (expected one of %s)", s.Backend, strings.Join(persist.Kinds, ", "))).
			WithDetail("backend", s.Backend)
	}
	if s.DebounceMs != nil && *s.DebounceMs < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "debounce_ms cannot be negative").
			WithDetail("debounce_ms", *s.DebounceMs)
	}
	return nil
}

func isKnownBackend(kind string) bool {
	for _, k := range persist.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
