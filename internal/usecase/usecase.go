// Package usecase implements the operations the UI performs on application
// state. Use-cases are serialized: each one reads the store, computes the
// next state, sets it, and executes the MemSaver timer commands it produced.
//
// Store listeners run inside a use-case and must not call back into
// UseCases synchronously.
package usecase

import (
	"strings"
	"sync"

	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/internal/memsaver"
	"github.com/grovetools/deck/internal/store"
	"github.com/grovetools/deck/logging"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/state"
	"github.com/sirupsen/logrus"
)

// UseCases is the orchestrator for every state-changing operation.
type UseCases struct {
	mu     sync.Mutex
	store  *store.Store[*state.State]
	arena  *memsaver.TimerArena
	logger *logrus.Entry
	newID  func() entity.ID
}

// Option configures UseCases.
type Option func(*UseCases)

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(u *UseCases) { u.logger = logger }
}

// WithIDGenerator replaces entity.NewID for new entities.
func WithIDGenerator(fn func() entity.ID) Option {
	return func(u *UseCases) { u.newID = fn }
}

// New creates the orchestrator over st. Deactivation timers are armed on
// arena.
func New(st *store.Store[*state.State], arena *memsaver.TimerArena, opts ...Option) *UseCases {
	u := &UseCases{
		store: st,
		arena: arena,
		newID: entity.NewID,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.logger == nil {
		u.logger = logging.NewLogger("usecase")
	}
	return u
}

// Store returns the store the use-cases act on.
func (u *UseCases) Store() *store.Store[*state.State] {
	return u.store
}

// Shutdown cancels every pending deactivation timer.
func (u *UseCases) Shutdown() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.arena.CancelAll()
}

// commit publishes next and runs the timer commands. Callers hold u.mu.
func (u *UseCases) commit(next *state.State, cmds []memsaver.Command) {
	if next != u.store.Get() {
		u.store.Set(next)
	}
	if len(cmds) > 0 {
		u.arena.Execute(cmds, u.deactivateOnTimer)
	}
}

// deactivateOnTimer is the callback of every armed deactivation. It does
// nothing unless token is still the workflow's pending timer and the
// workflow still exists.
func (u *UseCases) deactivateOnTimer(id entity.ID, token memsaver.TimerID) {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	ms := st.MemSaver()
	logger := u.logger.WithFields(logrus.Fields{"workflow": id, "token": token})

	if current, ok := ms.PendingTimer(id); !ok || current != token {
		logger.Debug("Ignoring stale deactivation timer")
		return
	}
	if _, ok := st.Workflow(id); !ok {
		logger.Debug("Deactivation timer for a deleted workflow")
		return
	}

	ms, cmds := memsaver.Deactivate(ms, id)
	u.commit(st.SetMemSaver(ms), cmds)
	logger.Info("Workflow deactivated after inactivity")
}

func validateName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.InvalidInput(kind + " name cannot be empty").WithDetail("kind", kind)
	}
	return name, nil
}
