package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Amund211/awardtracker/internal/logging"
	"github.com/Amund211/awardtracker/internal/reporting"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher registers awards added to the catalog file while the service runs
type Watcher struct {
	path     string
	registry Registry
	debounce time.Duration

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the catalog file until ctx is cancelled or Close is called.
// The parent directory is watched, since editors often replace the file instead of writing to it.
func Watch(ctx context.Context, path string, registry Registry) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	path = filepath.Clean(path)
	err = fsWatcher.Add(filepath.Dir(path))
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	w := &Watcher{
		path:     path,
		registry: registry,
		debounce: defaultDebounce,

		watcher: fsWatcher,
		done:    make(chan struct{}),
	}

	go w.run(ctx)

	return w, nil
}

// Close stops the watcher and waits for it to exit
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	logger := logging.FromContext(ctx).With(slog.String("catalog", w.path))

	// Stopped until the first relevant event
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			reporting.Report(ctx, fmt.Errorf("catalog watcher error: %w", err))

		case <-timer.C:
			w.reload(ctx, logger)
		}
	}
}

func (w *Watcher) reload(ctx context.Context, logger *slog.Logger) {
	definitions, err := LoadFile(w.path)
	if err != nil {
		// Likely a half written file. Wait for the next write.
		logger.WarnContext(ctx, "Failed to reload award catalog", "error", err)
		return
	}

	added := Apply(ctx, w.registry, definitions)
	logger.InfoContext(ctx, "Reloaded award catalog", slog.Int("added", added), slog.Int("total", len(definitions)))
}
