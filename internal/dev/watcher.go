package dev

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors directories for changes, recursively, and reports
// them debounced: a burst of writes produces one callback carrying the
// distinct paths touched.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func(paths []string)
	log      *slog.Logger
}

// NewWatcher creates a watcher over the given root directories.
// Subdirectories present at creation time or created later are
// included.
func NewWatcher(roots []string, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, debounce: debounce, log: log}
	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// OnChange sets the callback invoked after each debounced burst.
func (w *Watcher) OnChange(fn func(paths []string)) {
	w.onChange = fn
}

// Run processes events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending = make(map[string]struct{})
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ignored(ev.Name) {
				continue
			}
			// New directories join the watch set.
			if ev.Op.Has(fsnotify.Create) {
				if err := w.addRecursive(ev.Name); err == nil {
					w.log.Debug("watching new path", "path", ev.Name)
				}
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "err", err)

		case <-timerCh:
			if len(pending) > 0 && w.onChange != nil {
				paths := make([]string, 0, len(pending))
				for p := range pending {
					paths = append(paths, p)
				}
				pending = make(map[string]struct{})
				w.onChange(paths)
			}
			timerCh = nil
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if ignored(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func ignored(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." {
		return true
	}
	switch base {
	case "node_modules", "dist", "tmp":
		return true
	}
	return strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp")
}
