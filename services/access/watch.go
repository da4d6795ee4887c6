package access

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type fileWatcher interface {
	Add(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

type fsWatcher struct {
	w *fsnotify.Watcher
}

func (f fsWatcher) Add(name string) error         { return f.w.Add(name) }
func (f fsWatcher) Close() error                  { return f.w.Close() }
func (f fsWatcher) Events() <-chan fsnotify.Event { return f.w.Events }
func (f fsWatcher) Errors() <-chan error          { return f.w.Errors }

var newWatcher = func() (fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return fsWatcher{w: w}, nil
}

// readdAttempts bounds how long a replaced file is waited for
const readdAttempts = 5

// Watch reloads the store whenever its file changes, until ctx is done. A
// store without a file returns immediately.
func (s *Store) Watch(ctx context.Context) {
	if s.path == "" {
		return
	}

	w, err := newWatcher()
	if err != nil {
		s.logger.Error("failed to create allowlist watcher", zap.Error(err))
		return
	}
	defer w.Close()

	if err := w.Add(s.path); err != nil {
		s.logger.Error("allowlist watch add failed", zap.String("path", s.path), zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			// editors replace files by rename; the watch has to be re-added
			if ev.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				go s.readd(w, ev.Name)
			} else if ev.Op&fsnotify.Create != 0 {
				if err := w.Add(ev.Name); err != nil && !errors.Is(err, os.ErrNotExist) {
					s.logger.Error("allowlist watch re-add failed", zap.String("path", ev.Name), zap.Error(err))
				}
			}
			// a renamed file is reloaded by readd once it reappears
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if err := s.Reload(); err != nil {
					s.logger.Error("allowlist reload failed, keeping previous keys", zap.Error(err))
				}
			}
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			s.logger.Error("allowlist watch error", zap.Error(err))
		}
	}
}

func (s *Store) readd(w fileWatcher, name string) {
	for i := 0; i < readdAttempts; i++ {
		err := w.Add(name)
		if err == nil {
			if reloadErr := s.Reload(); reloadErr != nil {
				s.logger.Error("allowlist reload failed, keeping previous keys", zap.Error(reloadErr))
			}
			return
		}
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Error("allowlist watch re-add failed", zap.String("path", name), zap.Error(err))
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}
