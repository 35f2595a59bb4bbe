package progression

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/ledger"
	"github.com/rbt-academy/trainer/internal/services/registry"
)

// ProfileStore reads and updates the signed-in user's profile. UpdateProfile
// must not let the signed-in user change between its read and its write.
type ProfileStore interface {
	CurrentProfile(ctx context.Context) (model.UserProfile, error)
	UpdateProfile(ctx context.Context, fn func(model.UserProfile) model.UserProfile) (model.UserProfile, error)
}

// Service applies score reports to the signed-in user
type Service struct {
	profiles ProfileStore
	ledger   *ledger.Ledger
	registry *registry.Store
	logger   *slog.Logger

	// Serializes read-modify-write of the profile within this process
	mu sync.Mutex
}

// New creates a new progression Service
func New(profiles ProfileStore, ledger *ledger.Ledger, registry *registry.Store, logger *slog.Logger) *Service {
	return &Service{
		profiles: profiles,
		ledger:   ledger,
		registry: registry,
		logger:   logger.With(slog.String("component", "progression")),
	}
}

// RecordScore applies delta to the signed-in user, appends the raw delta
// to the ledger, and persists the result. Storage failures are logged; the
// updated profile is still returned.
func (s *Service) RecordScore(ctx context.Context, delta int) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current model.UserProfile
	next, err := s.profiles.UpdateProfile(ctx, func(p model.UserProfile) model.UserProfile {
		current = p
		s.ledger.Append(ctx, delta)
		return Apply(p, delta)
	})
	switch {
	case errors.Is(err, model.ErrNotAuthenticated):
		return model.UserProfile{}, err
	case err != nil:
		s.logger.Warn("progress not persisted",
			slog.String("name", next.Name),
			slog.Any("error", err))
	}

	s.logger.Info("score recorded",
		slog.String("name", next.Name),
		slog.Int("delta", delta),
		slog.Int("xp", next.XP),
		slog.Int("modules_completed", next.ModulesCompleted))
	if next.Level != current.Level {
		s.logger.Info("level changed",
			slog.String("name", next.Name),
			slog.String("from", current.Level.String()),
			slog.String("to", next.Level.String()))
	}

	return next, nil
}

// RecordObjection appends an answered objection to the user's registry history
func (s *Service) RecordObjection(ctx context.Context, rec model.ObjectionRecord) {
	s.record(ctx, model.RegistryPatch{Objection: &rec})
}

// RecordSimulator appends a finished conversation to the user's registry history
func (s *Service) RecordSimulator(ctx context.Context, rec model.SimulatorRecord) {
	s.record(ctx, model.RegistryPatch{Simulator: &rec})
}

// CurrentName returns the signed-in user's name, empty when signed out
func (s *Service) CurrentName(ctx context.Context) string {
	p, err := s.profiles.CurrentProfile(ctx)
	if err != nil {
		return ""
	}
	return p.Name
}

func (s *Service) record(ctx context.Context, patch model.RegistryPatch) {
	name := s.CurrentName(ctx)
	if name == "" {
		s.logger.Debug("history record dropped, nobody signed in")
		return
	}
	s.registry.Upsert(ctx, name, patch)
}
