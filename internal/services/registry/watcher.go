package registry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/rbt-academy/trainer/internal/dependencies/clock"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/storage"
)

// DefaultWatchInterval is how often the registry is polled
const DefaultWatchInterval = 5 * time.Second

// Watcher polls the stored registry and publishes a change event whenever
// its bytes differ from the last poll. It catches writes made by other
// processes sharing the same store.
type Watcher struct {
	storage  storage.Storage
	clock    clock.Clock
	notifier Notifier
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	last      []byte
	scheduler *gocron.Scheduler
}

// NewWatcher creates a Watcher; a non-positive interval uses the default
func NewWatcher(storage storage.Storage, clock clock.Clock, notifier Notifier, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Watcher{
		storage:  storage,
		clock:    clock,
		notifier: notifier,
		interval: interval,
		logger:   logger.With(slog.String("component", "registry-watcher")),
	}
}

// Start takes a baseline snapshot and begins polling in the background
func (w *Watcher) Start(ctx context.Context) error {
	baseline, err := w.snapshot(ctx)
	if err != nil {
		w.logger.Warn("registry baseline read failed", slog.Any("error", err))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.scheduler != nil {
		return nil
	}
	w.last = baseline

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()
	if _, err := scheduler.Every(w.interval).Do(func() {
		pollCtx, cancel := context.WithTimeout(context.Background(), w.interval)
		defer cancel()
		w.Poll(pollCtx)
	}); err != nil {
		return err
	}
	scheduler.StartAsync()
	w.scheduler = scheduler

	w.logger.Info("registry watcher started", slog.Duration("interval", w.interval))
	return nil
}

// Stop halts polling
func (w *Watcher) Stop() {
	w.mu.Lock()
	scheduler := w.scheduler
	w.scheduler = nil
	w.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
		w.logger.Info("registry watcher stopped")
	}
}

// Poll compares the stored registry with the previous snapshot and
// publishes when it changed. It reports whether a change was seen.
func (w *Watcher) Poll(ctx context.Context) bool {
	current, err := w.snapshot(ctx)
	if err != nil {
		// A transient failure is not a change
		w.logger.Warn("registry poll failed", slog.Any("error", err))
		return false
	}

	w.mu.Lock()
	changed := !bytes.Equal(current, w.last)
	w.last = current
	w.mu.Unlock()

	if changed {
		w.notifier.Publish(model.Event{
			Type:      model.EventRegistryChanged,
			Timestamp: w.clock.Now(),
		})
	}
	return changed
}

func (w *Watcher) snapshot(ctx context.Context) ([]byte, error) {
	data, err := w.storage.Get(ctx, storage.KeyRegistry)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	return data, err
}
