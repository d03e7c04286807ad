package prefs

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the preferences file when it changes on disk, so an
// externally edited preference takes effect without restarting the
// inspector.
type Watcher struct {
	log     *zap.Logger
	mgr     *Manager
	fs      *fsnotify.Watcher
	done    chan struct{}
	closeMu sync.Once
}

// NewWatcher starts watching the manager's file. onReload runs after every
// successful reload; it may be nil.
func NewWatcher(mgr *Manager, onReload func(), log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace files rather than rewrite them,
	// and a watch on the file itself would be lost on replace.
	if err := fs.Add(filepath.Dir(mgr.path)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch preferences directory: %w", err)
	}

	w := &Watcher{log: log, mgr: mgr, fs: fs, done: make(chan struct{})}
	go w.loop(onReload)
	return w, nil
}

func (w *Watcher) loop(onReload func()) {
	target := filepath.Clean(w.mgr.path)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := w.mgr.Load(); err != nil {
				w.log.Warn("preferences reload failed", zap.Error(err))
				continue
			}
			w.log.Debug("preferences reloaded", zap.String("path", target))
			if onReload != nil {
				onReload()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("preferences watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() {
	w.closeMu.Do(func() {
		close(w.done)
		w.fs.Close()
	})
}
