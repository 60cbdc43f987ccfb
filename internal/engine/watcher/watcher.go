// Package watcher reloads deck configuration when its files change on disk.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/deck/config"
	"github.com/grovetools/deck/pkg/clock"
	"github.com/grovetools/deck/pkg/debounce"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 100 * time.Millisecond

// ConfigWatcher watches the config directory and calls onReload once per
// burst of writes to a deck config file.
type ConfigWatcher struct {
	watcher      *fsnotify.Watcher
	debouncer    *debounce.Debouncer
	logger       *logrus.Entry
	onReload     func(file string)
	targetToLink map[string]string // symlink target path -> link name in configDir
	configDir    string

	mu      sync.Mutex
	changed string
}

// New creates a ConfigWatcher on configDir. Config files that are symlinks
// have their target directories watched too, since fsnotify does not follow
// links.
func New(configDir string, wait time.Duration, clk clock.Clock, onReload func(string), logger *logrus.Entry) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return nil, err
	}

	watchedDirs := map[string]bool{configDir: true}
	targetToLink := make(map[string]string)

	entries, err := os.ReadDir(configDir)
	if err == nil {
		for _, entry := range entries {
			if !config.IsConfigFile(entry.Name()) || entry.Type()&os.ModeSymlink == 0 {
				continue
			}
			fullPath := filepath.Join(configDir, entry.Name())
			target, err := filepath.EvalSymlinks(fullPath)
			if err != nil {
				logger.WithError(err).Warnf("Failed to resolve symlink %s", entry.Name())
				continue
			}
			targetToLink[target] = entry.Name()

			targetDir := filepath.Dir(target)
			if watchedDirs[targetDir] {
				continue
			}
			if err := watcher.Add(targetDir); err != nil {
				logger.WithError(err).Warnf("Failed to watch symlink target dir %s", targetDir)
				continue
			}
			watchedDirs[targetDir] = true
			logger.Debugf("Watching symlink target directory: %s", targetDir)
		}
	}

	if wait <= 0 {
		wait = DefaultDebounce
	}

	return &ConfigWatcher{
		watcher:      watcher,
		debouncer:    debounce.New(clk, wait),
		logger:       logger,
		onReload:     onReload,
		targetToLink: targetToLink,
		configDir:    configDir,
	}, nil
}

// Start processes file events. It blocks until ctx is cancelled or the
// watcher is closed.
func (w *ConfigWatcher) Start(ctx context.Context) {
	defer w.debouncer.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := event.Name
			if link, ok := w.targetToLink[name]; ok {
				name = filepath.Join(w.configDir, link)
			}
			if config.IsConfigFile(filepath.Base(name)) && filepath.Dir(name) == w.configDir {
				w.handleChange(name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

// handleChange records file and (re)arms the trailing debounce.
func (w *ConfigWatcher) handleChange(file string) {
	w.mu.Lock()
	w.changed = file
	w.mu.Unlock()

	w.debouncer.Call(func() {
		w.mu.Lock()
		file := w.changed
		w.mu.Unlock()

		w.logger.Infof("Config changed: %s", filepath.Base(file))
		if w.onReload != nil {
			w.onReload(file)
		}
	})
}

// Close stops the watcher and releases resources.
func (w *ConfigWatcher) Close() error {
	w.debouncer.Stop()
	return w.watcher.Close()
}
