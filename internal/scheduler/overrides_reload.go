package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alexander-kolodka/crestic-docs/internal/index"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	"github.com/alexander-kolodka/crestic-docs/internal/metrics"
	"github.com/alexander-kolodka/crestic-docs/internal/sources/overrides"
	redisstore "github.com/alexander-kolodka/crestic-docs/internal/store/redis"
	"github.com/alexander-kolodka/crestic-docs/internal/theme"
)

// DefaultDebounce is the quiet period after a file event before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Reload triggers, used in logs and metrics.
const (
	TriggerStart  = "start"
	TriggerTicker = "ticker"
	TriggerWatch  = "watch"
	TriggerManual = "manual"
)

// OverridesReloader rebuilds the theme provider from the overrides file
// and swaps it into the memory index.
type OverridesReloader struct {
	loader        *overrides.Loader // nil when no overrides file is configured
	store         *redisstore.Store
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	debounce      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
	watchTrigger  chan struct{}
}

// NewOverridesReloader creates a new overrides reloader. An empty
// overridesFile serves the built-in theme and only reacts to manual triggers.
func NewOverridesReloader(
	overridesFile string,
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *OverridesReloader {
	var loader *overrides.Loader
	if overridesFile != "" {
		loader = overrides.NewLoader(overridesFile)
	}

	return &OverridesReloader{
		loader:        loader,
		store:         store,
		index:         idx,
		logger:        log.With(logger.String("component", "overrides_reloader")),
		interval:      interval,
		debounce:      DefaultDebounce,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		watchTrigger:  make(chan struct{}, 1),
	}
}

// Start loads the overrides once and then keeps reloading them on the
// ticker, on file changes and on manual trigger until ctx is done or Stop
// is called. A failing initial load is returned.
func (r *OverridesReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := r.Reload(ctx, TriggerStart); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	var watcher *fsnotify.Watcher
	var events <-chan fsnotify.Event
	var errs <-chan error
	if r.loader != nil {
		w, err := r.watch()
		if err != nil {
			r.logger.Warn("file watcher disabled, relying on periodic reload",
				logger.Error(err))
		} else {
			watcher = w
			events, errs = w.Events, w.Errors
		}
	}

	// Start periodic reload
	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		if watcher != nil {
			defer func() { _ = watcher.Close() }()
		}
		var debounceTimer *time.Timer
		defer func() {
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
		}()

		for {
			select {
			case <-ticker.C:
				r.reloadLogged(ctx, TriggerTicker)
			case <-r.manualTrigger:
				r.logger.Info("manual reload triggered")
				r.reloadLogged(ctx, TriggerManual)
			case <-r.watchTrigger:
				r.reloadLogged(ctx, TriggerWatch)
			case event, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if !r.isOverridesEvent(event) {
					continue
				}
				r.logger.Debug("overrides file changed", logger.String("op", event.Op.String()))
				// Debounce: reset timer on each event
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(r.debounce, r.notifyWatch)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				r.logger.Error("overrides watcher error", logger.Error(err))
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (r *OverridesReloader) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Reload builds a provider from the current overrides and swaps it in.
// On failure the previous provider keeps serving.
func (r *OverridesReloader) Reload(ctx context.Context, trigger string) error {
	now := time.Now()

	next, err := r.build()
	if err != nil {
		metrics.RecordOverridesReload(trigger, "failure", now)
		return err
	}

	if prev := r.index.Provider(); prev != nil && prev.Revision() == next.Revision() {
		r.logger.Debug("overrides unchanged",
			logger.String("trigger", trigger),
			logger.String("revision", next.Revision()))
		metrics.RecordOverridesReload(trigger, "unchanged", now)
		return nil
	}

	prev := r.index.SetProvider(next)
	fields := []logger.Field{
		logger.String("trigger", trigger),
		logger.String("revision", next.Revision()),
	}
	if prev != nil {
		fields = append(fields, logger.String("previous_revision", prev.Revision()))
	}
	r.logger.Info("theme provider reloaded", fields...)
	metrics.RecordOverridesReload(trigger, "success", now)

	// Drop renderings of the previous revision (best effort)
	if r.store != nil && prev != nil {
		if n, err := r.store.FlushThemeCache(ctx); err != nil {
			r.logger.Warn("failed to flush theme cache", logger.Error(err))
		} else if n > 0 {
			r.logger.Debug("theme cache flushed", logger.Int("deleted", n))
		}
	}

	return nil
}

func (r *OverridesReloader) build() (*theme.Provider, error) {
	if r.loader == nil {
		return theme.New()
	}

	o, err := r.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	p, err := theme.New(theme.WithOverrides(o))
	if err != nil {
		return nil, fmt.Errorf("failed to apply overrides from %s: %w", r.loader.Path(), err)
	}
	return p, nil
}

func (r *OverridesReloader) reloadLogged(ctx context.Context, trigger string) {
	if err := r.Reload(ctx, trigger); err != nil {
		r.logger.Error("failed to reload overrides, keeping previous theme",
			logger.String("trigger", trigger),
			logger.Error(err))
	}
}

// watch watches the directory of the overrides file, so editors replacing
// the file by rename are seen as well.
func (r *OverridesReloader) watch() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(r.loader.Path())
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	r.logger.Info("watching overrides file", logger.String("path", r.loader.Path()))
	return watcher, nil
}

func (r *OverridesReloader) isOverridesEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(r.loader.Path()) {
		return false
	}
	// Write and Create cover in-place edits and rename-over saves
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (r *OverridesReloader) notifyWatch() {
	select {
	case r.watchTrigger <- struct{}{}:
	default:
		// A reload is already queued
	}
}
