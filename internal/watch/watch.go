// Package watch turns filesystem changes in the browsed directory into
// DirChanged events.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"reelbox/internal/event"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultSettle is how long a burst of changes is collapsed into one event.
const DefaultSettle = 100 * time.Millisecond

// Watcher follows a single directory at a time.
type Watcher struct {
	fs     *fsnotify.Watcher
	log    logrus.FieldLogger
	settle time.Duration

	mu  sync.Mutex
	dir string
}

func New(log logrus.FieldLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{fs: fw, log: log.WithField("component", "watch"), settle: DefaultSettle}, nil
}

// Follow moves the watch to dir. Following the current directory again is
// a no-op.
func (w *Watcher) Follow(dir string) error {
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		// The old directory may be gone already.
		_ = w.fs.Remove(w.dir)
	}
	if err := w.fs.Add(dir); err != nil {
		w.dir = ""
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dir = dir
	w.log.WithField("directory", dir).Debug("watching")
	return nil
}

// Dir is the directory currently followed.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Run publishes DirChanged for changes in the followed directory until ctx
// ends, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context, bus *event.Bus) error {
	defer w.fs.Close()

	var (
		pending bool
		timer   = time.NewTimer(w.settle)
	)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Write) {
				continue
			}
			if filepath.Dir(ev.Name) != w.Dir() {
				continue
			}
			if !pending {
				pending = true
				timer.Reset(w.settle)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Error("fsnotify watcher error")

		case <-timer.C:
			pending = false
			if err := bus.Publish(ctx, event.Event{Kind: event.DirChanged, Path: w.Dir()}); err != nil {
				return err
			}
		}
	}
}
