// Package store holds the application state tree and notifies selector
// subscriptions when the slice they select changes.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/grovetools/deck/logging"
	"github.com/sirupsen/logrus"
)

// Store is a single-root state container. The root is replaced wholesale by
// Set; subscribers compare the slice they select from the old and new root.
//
// Set calls made while a notification pass is running, including calls from
// listeners, are queued and applied in order once the pass completes, so
// every listener observes states in the order they were set.
type Store[S any] struct {
	mu          sync.Mutex
	state       S
	subs        []*subscription[S]
	nextID      uint64
	dispatching bool
	queue       []S

	logger *logrus.Entry
}

type subscription[S any] struct {
	id     uint64
	active atomic.Bool
	notify func(state S)
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger *logrus.Entry
}

// WithLogger sets the logger used by the store.
func WithLogger(logger *logrus.Entry) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Store holding initial.
func New[S any](initial S, opts ...Option) *Store[S] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewLogger("store")
	}
	return &Store[S]{state: initial, logger: o.logger}
}

// Get returns the current root.
func (s *Store[S]) Get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the root and synchronously notifies subscribers whose
// selection changed. A panicking selector or listener propagates to the
// caller; states queued behind it are dropped.
func (s *Store[S]) Set(next S) {
	s.mu.Lock()
	if s.dispatching {
		s.queue = append(s.queue, next)
		queued := len(s.queue)
		s.mu.Unlock()
		s.logger.WithField("queued", queued).Debug("Set during notification, queued")
		return
	}
	s.dispatching = true
	s.mu.Unlock()

	completed := false
	defer func() {
		if completed {
			return
		}
		s.mu.Lock()
		dropped := len(s.queue)
		s.dispatching = false
		s.queue = nil
		s.mu.Unlock()
		s.logger.WithField("dropped", dropped).Error("Subscriber panicked during notification")
	}()

	for {
		s.mu.Lock()
		s.state = next
		subs := make([]*subscription[S], len(s.subs))
		copy(subs, s.subs)
		s.mu.Unlock()

		for _, sub := range subs {
			if sub.active.Load() {
				sub.notify(next)
			}
		}

		s.mu.Lock()
		if len(s.queue) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			completed = true
			return
		}
		next = s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
	}
}

// Len returns the number of live subscriptions.
func (s *Store[S]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Store[S]) add(notify func(state S)) func() {
	sub := &subscription[S]{notify: notify}
	sub.active.Store(true)

	s.mu.Lock()
	s.nextID++
	sub.id = s.nextID
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return func() { s.remove(sub) }
}

func (s *Store[S]) remove(sub *subscription[S]) {
	if !sub.active.CompareAndSwap(true, false) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.subs {
		if other.id == sub.id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}
