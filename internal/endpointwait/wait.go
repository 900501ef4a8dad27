// Package endpointwait blocks until an emulator's socket file appears.
package endpointwait

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/pine/pkg/log"
)

// DefaultRecheck is how often the path is stat'ed in case a filesystem
// event is missed.
const DefaultRecheck = time.Second

// Waiter watches a directory for a named endpoint.
type Waiter struct {
	Logger  log.Logger
	Recheck time.Duration
}

// Wait blocks until path exists or ctx is done.
func Wait(ctx context.Context, path string, logger log.Logger) error {
	w := Waiter{Logger: logger}
	return w.Wait(ctx, path)
}

// Wait blocks until path exists or ctx is done. It returns ctx.Err() when
// the context ends first.
func (w Waiter) Wait(ctx context.Context, path string) error {
	logger := w.Logger
	if logger == nil {
		logger = log.Discard
	}
	recheck := w.Recheck
	if recheck <= 0 {
		recheck = DefaultRecheck
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// Checked after Add so a create between the two is not lost.
	if ok, err := exists(path); ok || err != nil {
		return err
	}
	logger.Info("waiting for emulator endpoint", log.String("path", path))

	ticker := time.NewTicker(recheck)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			logger.Info("emulator endpoint appeared", log.String("path", path))
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			logger.Warn("endpoint watcher error", log.Err(err))

		case <-ticker.C:
			if ok, err := exists(path); ok || err != nil {
				return err
			}
		}
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
