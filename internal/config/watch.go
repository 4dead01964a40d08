package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 100 * time.Millisecond

// Watch reloads path whenever it changes and passes the result to onChange
// from the watcher goroutine. overrides, when non-nil, is applied to every
// reloaded config so command-line settings keep winning over the file. It
// watches the parent directory so editors that replace the file are seen too.
// The watcher stops when ctx is done.
func Watch(ctx context.Context, path string, log *slog.Logger, overrides func(*Config), onChange func(Config, error)) error {
	if path == "" {
		return fmt.Errorf("watch: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	go func() {
		defer w.Close()

		// Editors often write a file in several steps; reload once they settle.
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDelay)
				} else {
					timer.Reset(reloadDelay)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				cfg, err := reload(abs, overrides)
				if err != nil {
					log.Warn("config reload failed", "path", abs, "err", err)
				} else {
					log.Info("config reloaded", "path", abs)
				}
				onChange(cfg, err)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher", "err", err)
			}
		}
	}()
	return nil
}

func reload(path string, overrides func(*Config)) (Config, error) {
	cfg, err := Load(path)
	if err != nil || overrides == nil {
		return cfg, err
	}
	overrides(&cfg)
	return cfg, cfg.Validate()
}
