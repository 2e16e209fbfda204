package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nhle/tarefas/internal/logging"
	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/persistence"
	"github.com/nhle/tarefas/internal/seed"
	"github.com/nhle/tarefas/internal/store"
	"github.com/nhle/tarefas/internal/taskstore"
	"github.com/nhle/tarefas/internal/theme"
)

// runtime is everything one invocation needs, opened from config.
type runtime struct {
	cfg     *model.AppConfig
	logger  *log.Logger
	blobs   store.BlobStore
	adapter *persistence.Adapter
	store   *taskstore.Store
	theme   *theme.Manager

	closers []io.Closer
}

// openRuntime loads config, opens the storage backend and loads the task
// list. When logFile is set the logger writes to cfg.Log.File instead of
// stderr, so it does not draw over the TUI.
func openRuntime(ctx context.Context, opts *rootOptions, stderr io.Writer, notifier taskstore.Notifier, logFile bool) (*runtime, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	r := &runtime{cfg: cfg}
	if logFile && cfg.Log.File != "" {
		logger, closer, err := logging.NewFile(cfg.Log.File, cfg.Log)
		if err != nil {
			return nil, err
		}
		r.logger = logger
		r.closers = append(r.closers, closer)
	} else {
		r.logger = logging.New(stderr, cfg.Log)
	}

	blobs, err := store.Open(cfg.Storage)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	r.blobs = blobs
	r.closers = append(r.closers, blobs)

	r.adapter = persistence.New(blobs, r.logger, persistence.WithKey(cfg.Storage.Key))
	r.store = taskstore.New(r.adapter, notifier)
	r.store.Load(ctx, seed.Load(ctx, seed.Select(cfg.Seed), r.logger))

	fallback, err := theme.ParseMode(cfg.Display.Theme)
	if err != nil {
		r.logger.Warn("ignoring configured theme", "err", err)
		fallback = theme.ModeSystem
	}
	r.theme = theme.NewManager(blobs, fallback, r.logger)
	r.theme.Load(ctx)

	r.logger.Debug("runtime ready",
		"backend", cfg.Storage.Backend,
		"key", cfg.Storage.Key,
		"tasks", len(r.store.Tasks()),
	)
	return r, nil
}

// Close releases storage and log files in reverse order of opening.
func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && r.logger != nil {
			r.logger.Warn("closing resource", "err", err)
		}
	}
	r.closers = nil
}
