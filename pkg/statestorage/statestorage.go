// Package statestorage persists snapshots of application state under a
// single key, wrapped in a versioned envelope. Writes are coalesced through
// a trailing debounce; reads migrate older envelopes to the current schema.
package statestorage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/logging"
	"github.com/grovetools/deck/pkg/clock"
	"github.com/grovetools/deck/pkg/debounce"
	"github.com/grovetools/deck/pkg/persist"
	"github.com/grovetools/deck/pkg/versioned"
	"github.com/sirupsen/logrus"
)

// Options configures a StateStorage. S is the in-memory state type, P the
// persisted subset.
type Options[S, P any] struct {
	// Key the envelope is stored under.
	Key string
	// Version is the current schema version of P.
	Version int
	// Migrate converts payloads stored at an older (or unknown) version.
	Migrate versioned.Migrator[P]
	// PersistentState derives the persisted subset from a full state. It is
	// evaluated when the write happens, not when SaveState is called.
	PersistentState func(S) P
	// Debounce is the quiet period before a write. Zero writes synchronously.
	Debounce time.Duration
	Clock    clock.Clock
	Logger   *logrus.Entry
}

// StateStorage loads and saves one versioned snapshot.
type StateStorage[S, P any] struct {
	backend persist.Backend
	opts    Options[S, P]
	logger  *logrus.Entry

	debouncer *debounce.Debouncer

	mu      sync.Mutex
	pending *S

	// writeMu orders backend writes so an older snapshot never lands after
	// a newer one.
	writeMu sync.Mutex
}

// New creates a StateStorage over backend.
func New[S, P any](backend persist.Backend, opts Options[S, P]) *StateStorage[S, P] {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("statestorage")
	}
	return &StateStorage[S, P]{
		backend:   backend,
		opts:      opts,
		logger:    logger.WithField("key", opts.Key),
		debouncer: debounce.New(opts.Clock, opts.Debounce),
	}
}

// Key returns the backend key of this storage.
func (s *StateStorage[S, P]) Key() string {
	return s.opts.Key
}

// LoadState reads the stored snapshot. It returns nil with no error when
// nothing usable is stored: the key is absent, the value is not an envelope,
// or the backend read failed. A failed migration is returned as
// MIGRATION_FAILED and an undecodable current-version payload as
// STATE_CORRUPTED.
func (s *StateStorage[S, P]) LoadState(ctx context.Context) (*P, error) {
	text, ok, err := s.backend.GetText(ctx, s.opts.Key)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read persisted state, using defaults")
		return nil, nil
	}
	if !ok {
		s.logger.Debug("No persisted state")
		return nil, nil
	}

	env, ok := versioned.Decode([]byte(text))
	if !ok {
		s.logger.Warn("Persisted state is not a versioned envelope, ignoring it")
		return nil, nil
	}

	if env.Ver == s.opts.Version {
		var obj P
		if err := json.Unmarshal(env.Obj, &obj); err != nil {
			return nil, errors.StateCorrupted(s.opts.Key, env.Ver, err)
		}
		return &obj, nil
	}

	s.logger.WithFields(logrus.Fields{
		"from": env.Ver,
		"to":   s.opts.Version,
	}).Info("Migrating persisted state")

	obj, err := versioned.Unwrap(env, s.opts.Version, s.opts.Migrate)
	if err != nil {
		return nil, errors.MigrationFailed(env.Ver, s.opts.Version, err).WithDetail("key", s.opts.Key)
	}
	return &obj, nil
}

// SaveState schedules state to be written. Within one debounce window only
// the last call reaches the backend. Write failures are logged.
func (s *StateStorage[S, P]) SaveState(state S) {
	s.mu.Lock()
	s.pending = &state
	s.mu.Unlock()

	s.debouncer.Call(func() {
		if err := s.writePending(context.Background()); err != nil {
			s.logger.WithError(err).Error("Failed to persist state")
		}
	})
}

// Flush writes the pending snapshot now, if there is one.
func (s *StateStorage[S, P]) Flush(ctx context.Context) error {
	s.debouncer.Stop()
	return s.writePending(ctx)
}

// Pending reports whether a snapshot is waiting to be written.
func (s *StateStorage[S, P]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Clear drops any pending write and deletes the stored snapshot.
func (s *StateStorage[S, P]) Clear(ctx context.Context) error {
	s.debouncer.Stop()
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()

	if err := s.backend.DeleteItem(ctx, s.opts.Key); err != nil {
		return errors.PersistenceWrite(s.opts.Key, err)
	}
	return nil
}

func (s *StateStorage[S, P]) writePending(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	state := s.pending
	s.pending = nil
	s.mu.Unlock()

	if state == nil {
		return nil
	}

	env := versioned.New(s.opts.PersistentState(*state), s.opts.Version)
	if err := persist.SetJSON(ctx, s.backend, s.opts.Key, env); err != nil {
		return errors.PersistenceWrite(s.opts.Key, err)
	}
	s.logger.Debug("Persisted state")
	return nil
}
