package registry

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rbt-academy/trainer/internal/dependencies/clock"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/storage"
)

// Notifier is told when the registry changes
type Notifier interface {
	Publish(event model.Event)
}

// NopNotifier discards events
type NopNotifier struct{}

// Publish does nothing
func (NopNotifier) Publish(model.Event) {}

// Store is the shared name-keyed registry of user summaries and histories.
// Every write is a full read-merge-write of the whole map. Writers in one
// process are serialized; writers in other processes sharing the storage
// can still overwrite each other.
type Store struct {
	mu       sync.Mutex
	storage  storage.Storage
	clock    clock.Clock
	notifier Notifier
	logger   *slog.Logger
}

// New creates a new registry Store. A nil notifier discards events.
func New(storage storage.Storage, clock clock.Clock, notifier Notifier, logger *slog.Logger) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Store{
		storage:  storage,
		clock:    clock,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "registry")),
	}
}

// Load returns the whole registry. Absent, corrupt or unreadable registries
// read as empty.
func (s *Store) Load(ctx context.Context) model.Registry {
	reg, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("registry read failed", slog.Any("error", err))
		return model.Registry{}
	}
	return reg
}

// Get returns a single entry
func (s *Store) Get(ctx context.Context, name string) (model.RegistryEntry, bool) {
	entry, ok := s.Load(ctx)[name]
	return entry, ok
}

// Upsert merges patch onto the entry for name, creating it if absent.
// Guarded names are never written. It reports whether the write happened.
func (s *Store) Upsert(ctx context.Context, name string, patch model.RegistryPatch) bool {
	if model.IsGuardedName(name) {
		s.logger.Debug("registry write skipped for guarded name", slog.String("name", name))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("registry upsert skipped", slog.String("name", name), slog.Any("error", err))
		return false
	}

	entry, ok := reg[name]
	if !ok {
		entry = model.RegistryEntry{Name: name}
	}
	reg[name] = patch.Apply(entry)

	if err := s.save(ctx, reg); err != nil {
		s.logger.Warn("registry write failed", slog.String("name", name), slog.Any("error", err))
		return false
	}

	s.publish(model.EventRegistryChanged, name)
	return true
}

// Reset zeroes a user's XP, sets the lowest level and clears both histories
func (s *Store) Reset(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	entry, ok := reg[name]
	if !ok {
		return model.ErrUserNotFound
	}
	entry.XP = 0
	entry.Level = model.LevelJunior.Label()
	entry.LastSimulatorSession = nil
	entry.LastObjectionSession = nil
	reg[name] = entry

	if err := s.save(ctx, reg); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}

	s.logger.Info("registry entry reset", slog.String("name", name))
	s.publish(model.EventUserReset, name)
	return nil
}

// Leaderboard returns all entries by XP descending, ties by name
func (s *Store) Leaderboard(ctx context.Context) []model.RegistryEntry {
	reg := s.Load(ctx)
	entries := make([]model.RegistryEntry, 0, len(reg))
	for _, e := range reg {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b model.RegistryEntry) int {
		if c := cmp.Compare(b.XP, a.XP); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return entries
}

// Rank returns name's 1-based position in a board ordered by Leaderboard,
// or 0 when name is not on it
func Rank(board []model.RegistryEntry, name string) int {
	for i, e := range board {
		if e.Name == name {
			return i + 1
		}
	}
	return 0
}

// load reads the registry; only storage failures are returned
func (s *Store) load(ctx context.Context) (model.Registry, error) {
	var reg model.Registry
	err := storage.ReadJSON(ctx, s.storage, storage.KeyRegistry, &reg)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		reg = nil
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.Warn("registry corrupt, treating as empty", slog.Any("error", err))
		reg = nil
	default:
		return nil, err
	}
	if reg == nil {
		reg = model.Registry{}
	}
	for name, e := range reg {
		if e.Name != name {
			e.Name = name
			reg[name] = e
		}
	}
	return reg, nil
}

func (s *Store) save(ctx context.Context, reg model.Registry) error {
	return storage.WriteJSON(ctx, s.storage, storage.KeyRegistry, reg)
}

func (s *Store) publish(t model.EventType, name string) {
	s.notifier.Publish(model.Event{
		Type:      t,
		Timestamp: s.clock.Now(),
		Name:      name,
	})
}
