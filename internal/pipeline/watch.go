package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change before
// running again.
const DefaultDebounce = 200 * time.Millisecond

// Watch runs the pipeline, then runs it again whenever an IDL document in
// the input directory changes. It returns when ctx is cancelled.
func (p *Pipeline) Watch(ctx context.Context) error {
	logger := p.GetLogger()
	return WatchDir(ctx, p.Input, DefaultDebounce, logger, func(ctx context.Context) error {
		_, err := p.Run(ctx)
		return err
	})
}

// WatchDir calls run once, then after every burst of changes to *.json
// files directly inside dir. A failing run is logged and watching
// continues.
func WatchDir(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, run func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	runOnce := func() {
		if err := run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("generation failed", "input", dir, "error", err)
		}
	}
	runOnce()

	trigger := make(chan struct{}, 1)
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case trigger <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}()

	logger.Info("watching for IDL changes", "input", dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isIDLChange(event) {
				continue
			}
			logger.Debug("IDL change detected", "file", event.Name, "op", event.Op.String())
			schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-trigger:
			runOnce()
		}
	}
}

func isIDLChange(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
