package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mocbot/sounddash/internal/log"
)

// watchDebounce collapses editor write bursts into a single reload.
const watchDebounce = 250 * time.Millisecond

// Watcher reloads the config file when it changes on disk and delivers the
// new Config to the onChange callback. Reload errors are logged and skipped;
// the last good config stays in effect.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching configPath. The callback runs on the watcher
// goroutine; callers hand the value off (e.g. into the TUI event loop)
// rather than doing slow work in it.
func Watch(configPath string, onChange func(Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on save,
	// which drops a direct file watch.
	if err := fsw.Add(filepath.Dir(configPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching config directory: %w", err)
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	go w.run(configPath, onChange)
	return w, nil
}

func (w *Watcher) run(configPath string, onChange func(Config)) {
	var timer *time.Timer
	target := filepath.Clean(configPath)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				cfg, err := Load(configPath)
				if err != nil {
					log.Warn(log.CatConfig, "Config reload failed, keeping previous config", "path", configPath, "error", err)
					return
				}
				if err := cfg.Validate(); err != nil {
					log.Warn(log.CatConfig, "Reloaded config is invalid, keeping previous config", "path", configPath, "error", err)
					return
				}
				log.Info(log.CatConfig, "Config reloaded", "path", configPath)
				onChange(cfg)
			})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatConfig, "Config watcher error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
