package exercise

import (
	"context"
	"log/slog"

	"github.com/rbt-academy/trainer/internal/dependencies/clock"
	"github.com/rbt-academy/trainer/internal/dependencies/random"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/judge"
	"github.com/rbt-academy/trainer/internal/services/session"
)

// Progress receives score reports and history records from controllers
type Progress interface {
	RecordScore(ctx context.Context, delta int) (model.UserProfile, error)
	RecordObjection(ctx context.Context, rec model.ObjectionRecord)
	RecordSimulator(ctx context.Context, rec model.SimulatorRecord)
	CurrentName(ctx context.Context) string
}

// Profanity detects forbidden words in user text
type Profanity interface {
	Contains(text string) bool
}

// ResponseLog stores free-text quiz answers
type ResponseLog interface {
	Append(ctx context.Context, resp model.CustomResponse) bool
}

// Controller is the lifecycle every exercise shares
type Controller interface {
	Kind() model.ExerciseKind
	// Mount loads or starts a session and returns its view
	Mount(ctx context.Context) (any, error)
	// Unmount drops in-flight results and discards volatile progress
	Unmount(ctx context.Context)
	// View returns the current state
	View() (any, error)
}

// Deps are the collaborators shared by all controllers
type Deps struct {
	// Sessions survive restarts; used by the objection drill
	Sessions *session.Manager
	// Volatile sessions live in memory only
	Volatile *session.Manager

	Guard     *judge.Guard
	Progress  Progress
	Profanity Profanity
	Responses ResponseLog
	Clock     clock.Clock
	Random    random.Random
	Logger    *slog.Logger
}

// lifecycle tracks whether a controller is mounted and whether a judgement
// call is in flight. Every mount and unmount starts a new epoch; a result
// computed in an older epoch is dropped. Callers hold the controller lock.
type lifecycle struct {
	mounted bool
	busy    bool
	epoch   uint64
}

func (l *lifecycle) mount() {
	l.mounted = true
	l.busy = false
	l.epoch++
}

func (l *lifecycle) unmount() {
	l.mounted = false
	l.busy = false
	l.epoch++
}

func (l *lifecycle) ready() error {
	if !l.mounted {
		return model.ErrNotMounted
	}
	if l.busy {
		return model.ErrBusy
	}
	return nil
}

// ticket identifies one in-flight call: the epoch it started in and the
// user it was made for
type ticket struct {
	epoch uint64
	owner string
}

// acquire marks a call in flight on behalf of owner
func (l *lifecycle) acquire(owner string) (ticket, error) {
	if err := l.ready(); err != nil {
		return ticket{}, err
	}
	l.busy = true
	return ticket{epoch: l.epoch, owner: owner}, nil
}

// release ends the call t and reports whether its result may still be
// applied: the controller is still mounted in the same epoch and owner is
// still the user the call was made for
func (l *lifecycle) release(t ticket, owner string) bool {
	if l.epoch != t.epoch {
		return false
	}
	l.busy = false
	return l.mounted && owner == t.owner
}

// owner names the user a result would be credited to
func (d Deps) owner(ctx context.Context) string {
	return d.Progress.CurrentName(ctx)
}

// report hands a score to progression, logging when nobody can receive it
func report(ctx context.Context, progress Progress, logger *slog.Logger, kind model.ExerciseKind, delta int) {
	if _, err := progress.RecordScore(ctx, delta); err != nil {
		logger.Warn("score not recorded",
			slog.String("kind", string(kind)),
			slog.Int("delta", delta),
			slog.Any("error", err))
	}
}
