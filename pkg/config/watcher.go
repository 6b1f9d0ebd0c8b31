package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/brickedup/sessionkit/pkg/logging"
)

// ReloadFunc is called with the freshly loaded configuration after the
// watched file changes and parses cleanly.
type ReloadFunc func(*Config)

// Watcher reloads the configuration when the file changes on disk.
// Editors often write files as several events in quick succession, so
// events are debounced before a reload is attempted; a file that fails to
// parse keeps the previous configuration in effect.
type Watcher struct {
	path     string
	loader   *FileLoader
	onReload ReloadFunc
	logger   logging.Logger
	debounce time.Duration

	fsWatcher *fsnotify.Watcher
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(path string, onReload ReloadFunc, logger logging.Logger) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory, not the file: editors that replace the file
	// (rename + create) would otherwise drop the watch.
	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:      absPath,
		loader:    NewFileLoader(absPath),
		onReload:  onReload,
		logger:    logger.WithModule("config"),
		debounce:  200 * time.Millisecond,
		fsWatcher: fsWatcher,
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx)
}

// Stop stops watching and waits for the background goroutine to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	_ = w.fsWatcher.Close()
	<-w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := w.loader.Load()
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous configuration", "error", err)
		return
	}

	w.logger.Info("configuration reloaded", "path", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
