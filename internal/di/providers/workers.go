package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/notesapp/notes-server/internal/config"
	"github.com/notesapp/notes-server/internal/logger"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/watcher"
)

// ImportWatcherHandle wraps the analyzer output watcher with shutdown capability.
// Watcher is nil when no watch path is configured.
type ImportWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *ImportWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	<-h.done
	return h.Close()
}

// ProvideImportWatcher watches the configured analyzer output file and imports
// it each time it settles after a write.
func ProvideImportWatcher(i do.Injector) (*ImportWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Sync.WatchPath == "" {
		log.Debug("sync watch path not set, file import disabled")
		return &ImportWatcherHandle{}, nil
	}

	importer := do.MustInvoke[*service.ImportService](i)

	w, err := watcher.New(cfg.Sync.WatchPath, log.Logger, watcher.Options{SettleDelay: cfg.Sync.SettleDelay})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		err := w.Run(ctx, func(ctx context.Context, ev watcher.Event) {
			if ev.Type != watcher.EventChanged {
				log.Info("watched sync file removed", "path", ev.Path)
				return
			}

			result, err := importer.ImportFile(ctx, ev.Path)
			if err != nil {
				log.Warn("failed to import sync file", "path", ev.Path, "error", err)
				return
			}
			if !result.OK() {
				log.Warn("sync file imported with failures",
					"path", ev.Path,
					"run_id", result.RunID,
					"synced", result.Synced(),
					"failed", result.FailedCount(),
				)
				return
			}
			log.Info("sync file imported", "path", ev.Path, "run_id", result.RunID, "synced", result.Synced())
		})
		if err != nil && ctx.Err() == nil {
			log.Error("sync file watcher stopped", "error", err)
		}
	}()

	log.Info("Watching sync file", "path", w.Path())

	return &ImportWatcherHandle{Watcher: w, cancel: cancel, done: done}, nil
}
