package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rbt-academy/trainer/internal/dependencies/clock"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/storage"
)

// Window is how far back weekly activity looks
const Window = 7 * 24 * time.Hour

// Ledger is the per-device history of raw score reports, oldest first
type Ledger struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new Ledger
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Ledger {
	return &Ledger{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "ledger")),
	}
}

// Append records a raw score delta, keeping only the newest LedgerCap entries.
// Failures are logged and reported as false.
func (l *Ledger) Append(ctx context.Context, xp int) bool {
	entries, err := l.load(ctx)
	if err != nil {
		l.logger.Warn("ledger append skipped", slog.Any("error", err))
		return false
	}

	entries = append(entries, model.LedgerEntry{Date: l.clock.Now(), XP: xp})
	if len(entries) > model.LedgerCap {
		entries = entries[len(entries)-model.LedgerCap:]
	}

	if err := storage.WriteJSON(ctx, l.storage, storage.KeyLedger, entries); err != nil {
		l.logger.Warn("ledger write failed", slog.Any("error", err))
		return false
	}
	return true
}

// Entries returns the ledger, oldest first. Unreadable ledgers read as empty.
func (l *Ledger) Entries(ctx context.Context) []model.LedgerEntry {
	entries, err := l.load(ctx)
	if err != nil {
		l.logger.Warn("ledger read failed", slog.Any("error", err))
		return []model.LedgerEntry{}
	}
	return entries
}

// Weekly returns XP per weekday over the last seven days, Monday first
func (l *Ledger) Weekly(ctx context.Context) []model.DayActivity {
	return Aggregate(l.Entries(ctx), l.clock.Now())
}

// load reads the ledger. Absent and corrupt values read as empty; only
// storage failures are returned, so callers never overwrite on a failed read.
func (l *Ledger) load(ctx context.Context) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := storage.ReadJSON(ctx, l.storage, storage.KeyLedger, &entries)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		entries = nil
	case errors.Is(err, storage.ErrCorrupt):
		l.logger.Warn("ledger corrupt, starting empty", slog.Any("error", err))
		entries = nil
	default:
		return nil, err
	}
	if entries == nil {
		entries = []model.LedgerEntry{}
	}
	return entries, nil
}

// Aggregate sums entries dated within Window of now by weekday
func Aggregate(entries []model.LedgerEntry, now time.Time) []model.DayActivity {
	cutoff := now.Add(-Window)
	totals := make(map[time.Weekday]int, 7)
	for _, e := range entries {
		if e.Date.Before(cutoff) {
			continue
		}
		totals[e.Date.In(now.Location()).Weekday()] += e.XP
	}

	out := make([]model.DayActivity, 0, len(model.WeekOrder))
	for _, day := range model.WeekOrder {
		out = append(out, model.DayActivity{Day: day.String()[:3], XP: totals[day]})
	}
	return out
}
