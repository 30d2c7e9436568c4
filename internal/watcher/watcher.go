package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"lanshare/internal/util/logger/sl"
)

const DefaultDebounceDuration = 500 * time.Millisecond

// ConfigWatcher fires a callback when one tracked file changes. The
// parent directory is watched instead of the file itself because most
// editors replace the file on save, which drops a direct watch.
type ConfigWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	log       *slog.Logger
	onChange  func(path string)

	path     string
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func New(path string, debounce time.Duration, onChange func(path string), log *slog.Logger) (*ConfigWatcher, error) {
	const op = "watcher.New"

	if debounce <= 0 {
		debounce = DefaultDebounceDuration
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidPath, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w := &ConfigWatcher{
		watcher:   fsWatcher,
		debouncer: NewDebouncer(debounce),
		log:       log.With(slog.String("watcher", filepath.Base(path))),
		onChange:  onChange,
		path:      filepath.Clean(path),
		stopChan:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

func (w *ConfigWatcher) Close() error {
	w.once.Do(func() {
		close(w.stopChan)
	})
	err := w.watcher.Close()
	w.wg.Wait()
	w.debouncer.Stop()
	return err
}

func (w *ConfigWatcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.shouldProcess(event) {
				w.debouncer.Debounce(func() {
					w.log.Debug("tracked file changed", slog.String("path", w.path))
					w.onChange(w.path)
				})
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", sl.Err(err))
		}
	}
}

func (w *ConfigWatcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}
