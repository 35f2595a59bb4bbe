package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rbt-academy/trainer/internal/model"
)

const (
	// FixSessionSize is the number of flawed replies per session
	FixSessionSize = 5
	// FixFallbackScore is awarded per task when the judge is unavailable
	FixFallbackScore = 25
	// FixFallbackFeedback is the praise shown with the fallback score
	FixFallbackFeedback = "Great job fixing the mistake! The reply sounds much more professional."
)

// FixErrorView is the visible state of the fix-the-error drill
type FixErrorView struct {
	Task     *model.FixTask `json:"task,omitempty"`
	Index    int            `json:"index"`
	Total    int            `json:"total"`
	Score    int            `json:"score"`
	Finished bool           `json:"finished"`
	Verdict  *model.Verdict `json:"verdict,omitempty"`
	Busy     bool           `json:"busy"`
}

// FixError asks the user to rewrite flawed replies. Scores accumulate and
// the total is reported once at the end. Progress is not kept across mounts.
type FixError struct {
	deps   Deps
	logger *slog.Logger

	mu      sync.Mutex
	lc      lifecycle
	state   *model.SessionState
	verdict *model.Verdict
}

var _ Controller = (*FixError)(nil)

// NewFixError creates an unmounted drill
func NewFixError(deps Deps) *FixError {
	return &FixError{
		deps:   deps,
		logger: deps.Logger.With(slog.String("component", "exercise"), slog.String("kind", string(model.KindFixError))),
	}
}

func (f *FixError) Kind() model.ExerciseKind {
	return model.KindFixError
}

// Mount starts a new session
func (f *FixError) Mount(ctx context.Context) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lc.mount()
	f.state = f.deps.Volatile.Fresh(ctx, model.KindFixError, len(FixTasks), FixSessionSize)
	f.verdict = nil
	return f.view(), nil
}

// Unmount discards the session
func (f *FixError) Unmount(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lc.unmount()
	f.state = nil
	f.verdict = nil
	f.deps.Volatile.Discard(ctx, model.KindFixError)
}

func (f *FixError) View() (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.lc.mounted {
		return nil, model.ErrNotMounted
	}
	return f.view(), nil
}

// Submit scores a rewritten reply for the current task
func (f *FixError) Submit(ctx context.Context, text string) (FixErrorView, error) {
	text = strings.TrimSpace(text)

	f.mu.Lock()
	if err := f.lc.ready(); err != nil {
		f.mu.Unlock()
		return FixErrorView{}, err
	}
	var err error
	switch {
	case f.state.Finished:
		err = model.ErrSessionFinished
	case f.verdict != nil:
		err = model.ErrAlreadyAnswered
	case text == "":
		err = model.ErrEmptyAnswer
	}
	if err != nil {
		f.mu.Unlock()
		return FixErrorView{}, err
	}
	t, _ := f.lc.acquire(f.deps.owner(ctx))
	task := FixTasks[f.state.Current()]
	f.mu.Unlock()

	verdict := f.deps.Guard.Score(ctx, FixSituation(task), text, FixFallbackScore, FixFallbackFeedback)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.lc.release(t, f.deps.owner(ctx)) {
		f.logger.Info("late judgement dropped")
		return FixErrorView{}, model.ErrNotMounted
	}

	f.verdict = &verdict
	f.deps.Volatile.AddScore(ctx, f.state, verdict.Judgement.Score)
	return f.view(), nil
}

// Next moves past a scored task. Leaving the last one reports the total.
func (f *FixError) Next(ctx context.Context) (FixErrorView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.lc.ready(); err != nil {
		return FixErrorView{}, err
	}
	if f.state.Finished {
		return FixErrorView{}, model.ErrSessionFinished
	}
	if f.verdict == nil {
		return FixErrorView{}, model.ErrNotAnswered
	}

	f.verdict = nil
	if f.deps.Volatile.Advance(ctx, f.state) {
		report(ctx, f.deps.Progress, f.logger, model.KindFixError, f.state.Score)
	}
	return f.view(), nil
}

func (f *FixError) view() FixErrorView {
	v := FixErrorView{
		Index:    f.state.CurrentIndex,
		Total:    f.state.Total(),
		Score:    f.state.Score,
		Finished: f.state.Finished,
		Verdict:  f.verdict,
		Busy:     f.lc.busy,
	}
	if !f.state.Finished {
		task := FixTasks[f.state.Current()]
		v.Task = &task
	}
	return v
}

// FixSituation describes a flawed reply for the judge
func FixSituation(t model.FixTask) string {
	return fmt.Sprintf("SITUATION: %s BAD REPLY: %q. Rate how well the corrected version meets the store's customer service standards.",
		t.Context, t.Bad)
}
