package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rbt-academy/trainer/internal/dependencies/random"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/storage"
)

// Manager persists per-exercise session state. A Manager backed by
// volatile storage gives sessions that are lost on restart.
type Manager struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// NewManager creates a new session Manager
func NewManager(storage storage.Storage, random random.Random, logger *slog.Logger) *Manager {
	return &Manager{
		storage: storage,
		random:  random,
		logger:  logger.With(slog.String("component", "session")),
	}
}

// Resume returns the stored session for kind when one exists, is valid for
// the pool, and is not finished. Otherwise it starts a fresh one.
func (m *Manager) Resume(ctx context.Context, kind model.ExerciseKind, poolSize, size int) *model.SessionState {
	var st model.SessionState
	err := storage.ReadJSON(ctx, m.storage, storage.SessionKey(kind), &st)
	switch {
	case err == nil && st.Validate(kind, poolSize) && !st.Finished:
		m.logger.Debug("session resumed",
			slog.String("kind", string(kind)),
			slog.Int("index", st.CurrentIndex))
		return &st
	case err == nil:
		// finished or no longer valid for this pool
	case errors.Is(err, model.ErrNotFound):
	default:
		m.logger.Warn("stored session unreadable", slog.String("kind", string(kind)), slog.Any("error", err))
	}
	return m.Fresh(ctx, kind, poolSize, size)
}

// Fresh starts a new session over a random subset of the pool, without
// replacement, and saves it
func (m *Manager) Fresh(ctx context.Context, kind model.ExerciseKind, poolSize, size int) *model.SessionState {
	st := &model.SessionState{
		Kind:  kind,
		Order: random.Sample(m.random, poolSize, size),
	}
	m.Save(ctx, st)
	return st
}

// Sequence starts a new session that walks the first size tasks in order,
// for pools that are generated per session
func (m *Manager) Sequence(ctx context.Context, kind model.ExerciseKind, size int) *model.SessionState {
	order := make([]int, size)
	for i := range order {
		order[i] = i
	}
	st := &model.SessionState{Kind: kind, Order: order}
	m.Save(ctx, st)
	return st
}

// Save writes the session; failures are logged
func (m *Manager) Save(ctx context.Context, st *model.SessionState) {
	if err := storage.WriteJSON(ctx, m.storage, storage.SessionKey(st.Kind), st); err != nil {
		m.logger.Warn("session not saved", slog.String("kind", string(st.Kind)), slog.Any("error", err))
	}
}

// AddScore accumulates a task score into the session total
func (m *Manager) AddScore(ctx context.Context, st *model.SessionState, score int) {
	st.Score += score
	m.Save(ctx, st)
}

// Advance moves to the next task. Past the last task the session becomes
// finished. It returns true exactly once per session, on the call that
// finishes it, so the caller can report the session score upward.
func (m *Manager) Advance(ctx context.Context, st *model.SessionState) bool {
	if st.Finished {
		return false
	}
	if st.CurrentIndex < st.Total()-1 {
		st.CurrentIndex++
		m.Save(ctx, st)
		return false
	}

	st.Finished = true
	report := !st.Reported
	st.Reported = true
	m.Save(ctx, st)

	m.logger.Info("session finished",
		slog.String("kind", string(st.Kind)),
		slog.Int("tasks", st.Total()),
		slog.Int("score", st.Score))
	return report
}

// Discard removes the stored session for kind
func (m *Manager) Discard(ctx context.Context, kind model.ExerciseKind) {
	if err := m.storage.Delete(ctx, storage.SessionKey(kind)); err != nil {
		m.logger.Warn("session not discarded", slog.String("kind", string(kind)), slog.Any("error", err))
	}
}
