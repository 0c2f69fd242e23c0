// Package watch re-runs the vault analysis when files change on disk.
// Because a single note can change the whole link graph, every relevant
// event triggers a debounced full re-sync instead of an incremental patch.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Syncer rebuilds the vault analysis. Satisfied by vaultservice.Service.
type Syncer interface {
	Sync(ctx context.Context) error
}

// Callback is invoked after each watcher-driven re-sync.
type Callback func()

// Options tune the watcher.
type Options struct {
	Extension string        // note extension, default ".md"
	Debounce  time.Duration // quiet period before a re-sync, default 200ms
}

// Watch starts an fsnotify watcher on root and re-syncs svc until ctx is
// cancelled. New directories created at runtime are added to the watch
// list. Bursts of events collapse into a single re-sync.
func Watch(ctx context.Context, svc Syncer, root string, opts Options, logger *slog.Logger, cb Callback) error {
	ext := opts.Extension
	if ext == "" {
		ext = ".md"
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(debounce)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			if err := svc.Sync(ctx); err != nil {
				logger.Warn("watcher: re-sync failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("watcher: re-synced")
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories join the watch list and count as a change,
			// since they may carry notes moved in from elsewhere.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleSync()
					continue
				}
			}

			if !strings.EqualFold(filepath.Ext(ev.Name), ext) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				scheduleSync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
