package admin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/account"
	"github.com/rbt-academy/trainer/internal/services/registry"
	"github.com/rbt-academy/trainer/internal/services/stats"
)

// Identities returns the signed-in identity
type Identities interface {
	Current(ctx context.Context) (*account.Identity, error)
}

// Responses lists logged free-text quiz answers, newest first
type Responses interface {
	List(ctx context.Context) []model.CustomResponse
}

// UserSummary is a registry entry without its histories
type UserSummary struct {
	Name               string    `json:"name"`
	Store              string    `json:"store"`
	Level              string    `json:"level"`
	XP                 int       `json:"xp"`
	Avatar             string    `json:"avatar"`
	LastActive         time.Time `json:"lastActive"`
	SimulatorSessions  int       `json:"simulatorSessions"`
	ObjectionResponses int       `json:"objectionResponses"`
}

// Service is the administrative view over every user on the device.
// Every operation requires the administrative identity.
type Service struct {
	identities Identities
	registry   *registry.Store
	responses  Responses
	logger     *slog.Logger
}

// New creates a new admin Service
func New(identities Identities, registry *registry.Store, responses Responses, logger *slog.Logger) *Service {
	return &Service{
		identities: identities,
		registry:   registry,
		responses:  responses,
		logger:     logger.With(slog.String("component", "admin")),
	}
}

// Users lists every registered user by XP descending
func (s *Service) Users(ctx context.Context) ([]UserSummary, error) {
	if err := s.Authorize(ctx); err != nil {
		return nil, err
	}

	board := s.registry.Leaderboard(ctx)
	out := make([]UserSummary, len(board))
	for i, e := range board {
		out[i] = summarize(e)
	}
	return out, nil
}

// User returns one user's entry with both histories
func (s *Service) User(ctx context.Context, name string) (model.RegistryEntry, error) {
	if err := s.Authorize(ctx); err != nil {
		return model.RegistryEntry{}, err
	}

	e, ok := s.registry.Get(ctx, name)
	if !ok {
		return model.RegistryEntry{}, model.ErrUserNotFound
	}
	return e, nil
}

// Reset zeroes a user's XP and clears their histories. Without
// confirmation nothing changes.
func (s *Service) Reset(ctx context.Context, name string, confirmed bool) error {
	if err := s.Authorize(ctx); err != nil {
		return err
	}
	if !confirmed {
		return model.ErrConfirmationRequired
	}
	if err := s.registry.Reset(ctx, name); err != nil {
		return err
	}
	s.logger.Info("user reset", slog.String("name", name))
	return nil
}

// Responses returns the custom-answer log, newest first
func (s *Service) Responses(ctx context.Context) ([]model.CustomResponse, error) {
	if err := s.Authorize(ctx); err != nil {
		return nil, err
	}
	return s.responses.List(ctx), nil
}

// Stats aggregates the registry
func (s *Service) Stats(ctx context.Context) (stats.ShopStats, error) {
	if err := s.Authorize(ctx); err != nil {
		return stats.ShopStats{}, err
	}
	return stats.Shop(s.registry.Leaderboard(ctx)), nil
}

// Export writes the registry and the custom-answer log as an XLSX workbook
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	if err := s.Authorize(ctx); err != nil {
		return err
	}

	board := s.registry.Leaderboard(ctx)
	if err := writeWorkbook(w, board, s.responses.List(ctx)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	s.logger.Info("registry exported", slog.Int("users", len(board)))
	return nil
}

// Authorize fails unless the signed-in identity is the administrator
func (s *Service) Authorize(ctx context.Context) error {
	id, err := s.identities.Current(ctx)
	if err != nil {
		return err
	}
	if !id.IsAdmin {
		return model.ErrNotAdmin
	}
	return nil
}

func summarize(e model.RegistryEntry) UserSummary {
	return UserSummary{
		Name:               e.Name,
		Store:              e.Store,
		Level:              e.Level,
		XP:                 e.XP,
		Avatar:             e.Avatar,
		LastActive:         e.LastActive,
		SimulatorSessions:  len(e.LastSimulatorSession),
		ObjectionResponses: len(e.LastObjectionSession),
	}
}
