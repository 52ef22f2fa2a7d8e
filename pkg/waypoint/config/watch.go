package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
)

// watchDebounce collapses the burst of events editors produce for one save.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the document at name whenever it changes and hands the result
// to fn. It blocks until ctx is done.
//
// The parent directory is watched rather than the file so that editors which
// save by renaming a temporary file are picked up.
func Watch(ctx context.Context, name string, fn func(*File, error)) error {
	abs, err := filepath.Abs(name)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger := internal.GetInternalLogger()
	logger.Debug("watching route document", "path", abs)

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("route document watcher error", "path", abs, "error", err)

		case <-timer.C:
			f, err := Load(ctx, abs)
			if err != nil {
				logger.Warn("route document reload failed", "path", abs, "error", err)
			} else {
				logger.Info("route document reloaded", "path", abs, "routes", len(f.Routes))
			}
			fn(f, err)
		}
	}
}
