// Package engine wires configuration, persistence, the state store, the
// use-cases and the workflow lifecycle into a running deck.
package engine

import (
	"context"
	"sync"

	"github.com/grovetools/deck/config"
	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/internal/engine/watcher"
	"github.com/grovetools/deck/internal/lifecycle"
	"github.com/grovetools/deck/internal/memsaver"
	"github.com/grovetools/deck/internal/store"
	"github.com/grovetools/deck/internal/usecase"
	"github.com/grovetools/deck/logging"
	"github.com/grovetools/deck/pkg/clock"
	"github.com/grovetools/deck/pkg/persist"
	"github.com/grovetools/deck/pkg/profiling"
	"github.com/grovetools/deck/pkg/statestorage"
	"github.com/grovetools/deck/state"
	"github.com/sirupsen/logrus"
)

// AppStorage persists the application state.
type AppStorage = statestorage.StateStorage[*state.State, state.PersistentState]

// WindowStorage persists the window geometry.
type WindowStorage = statestorage.StateStorage[state.WindowState, state.WindowState]

// Options configures an Engine.
type Options struct {
	// Config is the loaded configuration. Nil loads it from ConfigDir.
	Config *config.Config
	// ConfigDir is watched for changes by Start. Empty disables reloads.
	ConfigDir string
	// Backend overrides the backend selected by Config.Storage.
	Backend persist.Backend
	// Mounter receives workflow mount and unmount calls. Nil skips the
	// lifecycle observer.
	Mounter lifecycle.Mounter
	Clock   clock.Clock
	Logger  *logrus.Entry
}

// Engine owns the runtime objects of one deck instance.
type Engine struct {
	cfg       *config.Config
	configDir string
	backend   persist.Backend
	clock     clock.Clock
	logger    *logrus.Entry

	appStorage    *AppStorage
	windowStorage *WindowStorage

	store *store.Store[*state.State]
	arena *memsaver.TimerArena
	uc    *usecase.UseCases

	mu     sync.Mutex
	window state.WindowState
	unsubs []func()
	closed bool
}

// OpenStorage creates the app and window storages on backend with the
// timing of cfg.
func OpenStorage(backend persist.Backend, cfg *config.Config, clk clock.Clock, logger *logrus.Entry) (*AppStorage, *WindowStorage) {
	debounce := cfg.Storage.Debounce()
	app := statestorage.New(backend, statestorage.Options[*state.State, state.PersistentState]{
		Key:             state.Key,
		Version:         state.Version,
		Migrate:         state.Migrate,
		PersistentState: state.ToPersistent,
		Debounce:        debounce,
		Clock:           clk,
		Logger:          logger,
	})
	window := statestorage.New(backend, statestorage.Options[state.WindowState, state.WindowState]{
		Key:             state.WindowKey,
		Version:         state.WindowVersion,
		Migrate:         state.MigrateWindow,
		PersistentState: state.WindowPersistent,
		Debounce:        debounce,
		Clock:           clk,
		Logger:          logger,
	})
	return app, window
}

// New loads persisted state and prepares the engine. A snapshot that cannot
// be decoded or migrated aborts startup.
func New(ctx context.Context, opts Options) (*Engine, error) {
	defer profiling.Start("engine.open").Stop()

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("engine")
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.LoadFrom(opts.ConfigDir); err != nil {
			return nil, err
		}
	}
	cfg.SetDefaults()

	backend := opts.Backend
	if backend == nil {
		var err error
		backend, err = persist.Open(cfg.Storage.Backend, cfg.Storage.Path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePersistenceRead, "failed to open storage backend").
				WithDetail("backend", cfg.Storage.Backend).
				WithDetail("path", cfg.Storage.Path)
		}
	}

	e := &Engine{
		cfg:       cfg,
		configDir: opts.ConfigDir,
		backend:   backend,
		clock:     opts.Clock,
		logger:    logger,
	}
	if err := e.load(ctx, opts.Mounter); err != nil {
		backend.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) load(ctx context.Context, mounter lifecycle.Mounter) error {
	e.appStorage, e.windowStorage = OpenStorage(e.backend, e.cfg, e.clock, e.logger.WithField("component", "statestorage"))

	span := profiling.Start("statestorage.load")
	ps, err := e.appStorage.LoadState(ctx)
	if err != nil {
		span.Stop()
		return err
	}
	win, err := e.windowStorage.LoadState(ctx)
	span.Stop()
	if err != nil {
		return err
	}
	e.window = state.DefaultWindow
	if win != nil {
		e.window = *win
	}

	e.store = store.New(state.FromPersistent(ps), store.WithLogger(e.logger.WithField("component", "store")))
	e.arena = memsaver.NewTimerArena(e.clock, e.logger.WithField("component", "memsaver"))
	e.uc = usecase.New(e.store, e.arena, usecase.WithLogger(e.logger.WithField("component", "usecase")))

	e.unsubs = append(e.unsubs, store.Subscribe(e.store, func(s *state.State) *state.State { return s },
		func(next, _ *state.State) { e.appStorage.SaveState(next) }))

	if err := e.applyConfig(e.cfg); err != nil {
		return err
	}
	span = profiling.Start("usecase.init")
	err = e.uc.Init()
	span.Stop()
	if err != nil {
		return err
	}
	if mounter != nil {
		e.unsubs = append(e.unsubs, lifecycle.Watch(e.store, mounter, e.logger.WithField("component", "lifecycle")))
	}

	e.logger.WithFields(logrus.Fields{
		"backend":  e.cfg.Storage.Backend,
		"projects": e.store.Get().Entities.Projects.Len(),
		"restored": ps != nil,
	}).Info("Engine ready")
	return nil
}

// applyConfig lays the config memsaver section over the app settings.
func (e *Engine) applyConfig(cfg *config.Config) error {
	if cfg.MemSaver == nil || cfg.MemSaver.IsZero() {
		return nil
	}
	merged := e.store.Get().AppMemSaver().Merge(*cfg.MemSaver)
	return e.uc.SetAppMemSaverConfig(merged)
}

// Reload re-reads configuration from the config directory and applies its
// memsaver section.
func (e *Engine) Reload() error {
	cfg, err := config.LoadFrom(e.configDir)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
	return e.applyConfig(cfg)
}

// Start runs the config watcher until ctx is cancelled, then closes the
// engine, flushing pending writes.
func (e *Engine) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	if e.configDir != "" {
		w, err := watcher.New(e.configDir, watcher.DefaultDebounce, e.clock, func(file string) {
			if err := e.Reload(); err != nil {
				e.logger.WithError(err).WithField("file", file).Warn("Failed to reload configuration")
			}
		}, e.logger.WithField("component", "config-watcher"))
		if err != nil {
			e.logger.WithError(err).Warn("Config watcher unavailable")
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.Start(ctx)
			}()
		}
	}

	<-ctx.Done()
	wg.Wait()
	return e.Close(context.Background())
}

// Close stops timers and observers, flushes both storages and closes the
// backend. It is safe to call more than once.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	unsubs := e.unsubs
	e.unsubs = nil
	e.mu.Unlock()

	e.uc.Shutdown()
	for _, unsub := range unsubs {
		unsub()
	}

	var firstErr error
	if err := e.appStorage.Flush(ctx); err != nil {
		firstErr = err
	}
	if err := e.windowStorage.Flush(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.backend.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	e.logger.Debug("Engine closed")
	return firstErr
}

// UseCases returns the orchestrator.
func (e *Engine) UseCases() *usecase.UseCases { return e.uc }

// Store returns the state store.
func (e *Engine) Store() *store.Store[*state.State] { return e.store }

// Config returns the configuration in effect.
func (e *Engine) Config() *config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Window returns the last known window geometry.
func (e *Engine) Window() state.WindowState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window
}

// SetWindow records new window geometry and schedules it for persistence.
func (e *Engine) SetWindow(w state.WindowState) {
	e.mu.Lock()
	changed := w != e.window
	e.window = w
	e.mu.Unlock()
	if changed {
		e.windowStorage.SaveState(w)
	}
}
