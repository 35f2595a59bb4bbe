package responses

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rbt-academy/trainer/internal/dependencies/clock"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/storage"
)

// Cap is the number of custom answers kept
const Cap = 200

// Log is the append-only record of free-text quiz answers
type Log struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new custom-answer Log
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Log {
	return &Log{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "responses")),
	}
}

// Append stamps the response with the current time and stores it, dropping
// the oldest entries past Cap. It reports whether the write happened.
func (l *Log) Append(ctx context.Context, resp model.CustomResponse) bool {
	list, err := l.load(ctx)
	if err != nil {
		l.logger.Warn("custom answer not logged", slog.Any("error", err))
		return false
	}

	resp.Date = l.clock.Now()
	list = append(list, resp)
	if len(list) > Cap {
		list = list[len(list)-Cap:]
	}

	if err := storage.WriteJSON(ctx, l.storage, storage.KeyCustomResponses, list); err != nil {
		l.logger.Warn("custom answer not logged", slog.Any("error", err))
		return false
	}
	return true
}

// List returns the logged answers newest first
func (l *Log) List(ctx context.Context) []model.CustomResponse {
	list, err := l.load(ctx)
	if err != nil {
		l.logger.Warn("custom answers unreadable", slog.Any("error", err))
		return []model.CustomResponse{}
	}
	out := make([]model.CustomResponse, len(list))
	for i, r := range list {
		out[len(list)-1-i] = r
	}
	return out
}

// load returns the stored list in insertion order. Missing and corrupt
// values read as empty; transport errors are returned.
func (l *Log) load(ctx context.Context) ([]model.CustomResponse, error) {
	var list []model.CustomResponse
	err := storage.ReadJSON(ctx, l.storage, storage.KeyCustomResponses, &list)
	switch {
	case err == nil:
		return list, nil
	case errors.Is(err, model.ErrNotFound):
		return nil, nil
	case errors.Is(err, storage.ErrCorrupt):
		l.logger.Warn("custom answer log corrupt, starting over", slog.Any("error", err))
		return nil, nil
	default:
		return nil, err
	}
}
