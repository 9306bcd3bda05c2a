package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change before
// reindexing.
const DefaultDebounce = 2 * time.Second

// Watch reindexes the corpus whenever an included file changes, until ctx
// is cancelled. Bursts of changes within debounce trigger a single job.
func (r *Reindexer) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating corpus watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("failed to close corpus watcher: %v", err)
		}
	}()

	if err := r.watchTree(watcher, r.root); err != nil {
		return err
	}
	logger.Infof("watching %s for changes", r.root)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	var trigger func()
	trigger = func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.Start(ctx); err != nil {
			if errors.Is(err, ErrReindexRunning) {
				// Pick the change up once the running job is done.
				mu.Lock()
				timer = time.AfterFunc(debounce, trigger)
				mu.Unlock()
				return
			}
			logger.Errorf("starting reindex: %v", err)
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !r.relevant(watcher, event) {
				continue
			}
			logger.Debugf("corpus changed: %s (%s)", event.Name, event.Op)

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, trigger)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("corpus watcher error: %v", err)
		}
	}
}

// watchTree adds dir and every directory below it to the watcher.
func (r *Reindexer) watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}

func (r *Reindexer) relevant(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := r.watchTree(watcher, event.Name); err != nil {
				logger.Warnf("failed to watch new directory %s: %v", event.Name, err)
			}
			return true
		}
	}

	rel, err := filepath.Rel(r.root, event.Name)
	if err != nil {
		return false
	}
	if (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) && filepath.Ext(rel) == "" {
		// possibly a directory holding indexed files
		return true
	}
	return Matches(rel, r.include)
}
