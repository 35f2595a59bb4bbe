package exercise

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/rbt-academy/trainer/internal/model"
)

const (
	// ObjectionSessionSize is the number of objections per session
	ObjectionSessionSize = 10
	// ObjectionFallbackScore is awarded when the judge is unavailable
	ObjectionFallbackScore = 10
	// AcceptedFeedback is the generic fallback message
	AcceptedFeedback = "Answer accepted."
)

// ObjectionView is the visible state of the objection drill
type ObjectionView struct {
	Objection string         `json:"objection,omitempty"`
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	Finished  bool           `json:"finished"`
	Verdict   *model.Verdict `json:"verdict,omitempty"`
	Busy      bool           `json:"busy"`
}

// ObjectionDrill walks the user through a persisted sample of objections.
// Each answer is scored and reported on its own.
type ObjectionDrill struct {
	deps   Deps
	logger *slog.Logger

	mu      sync.Mutex
	lc      lifecycle
	state   *model.SessionState
	verdict *model.Verdict
}

var _ Controller = (*ObjectionDrill)(nil)

// NewObjectionDrill creates an unmounted objection drill
func NewObjectionDrill(deps Deps) *ObjectionDrill {
	return &ObjectionDrill{
		deps:   deps,
		logger: deps.Logger.With(slog.String("component", "exercise"), slog.String("kind", string(model.KindObjection))),
	}
}

func (d *ObjectionDrill) Kind() model.ExerciseKind {
	return model.KindObjection
}

// Mount resumes the stored session or starts a new one
func (d *ObjectionDrill) Mount(ctx context.Context) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lc.mount()
	d.state = d.deps.Sessions.Resume(ctx, model.KindObjection, len(Objections), ObjectionSessionSize)
	d.verdict = nil
	return d.view(), nil
}

// Unmount keeps the stored session resumable
func (d *ObjectionDrill) Unmount(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lc.unmount()
	d.state = nil
	d.verdict = nil
}

func (d *ObjectionDrill) View() (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.lc.mounted {
		return nil, model.ErrNotMounted
	}
	return d.view(), nil
}

// Submit scores an answer to the current objection, records it in the
// user's history, and reports the score
func (d *ObjectionDrill) Submit(ctx context.Context, answer string) (ObjectionView, error) {
	answer = strings.TrimSpace(answer)

	d.mu.Lock()
	if err := d.lc.ready(); err != nil {
		d.mu.Unlock()
		return ObjectionView{}, err
	}
	var err error
	switch {
	case d.state.Finished:
		err = model.ErrSessionFinished
	case d.verdict != nil:
		err = model.ErrAlreadyAnswered
	case answer == "":
		err = model.ErrEmptyAnswer
	}
	if err != nil {
		d.mu.Unlock()
		return ObjectionView{}, err
	}
	t, _ := d.lc.acquire(d.deps.owner(ctx))
	question := Objections[d.state.Current()]
	d.mu.Unlock()

	verdict := d.deps.Guard.Score(ctx, "Customer objection: "+question, answer, ObjectionFallbackScore, AcceptedFeedback)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.lc.release(t, d.deps.owner(ctx)) {
		d.logger.Info("late judgement dropped")
		return ObjectionView{}, model.ErrNotMounted
	}

	d.verdict = &verdict
	report(ctx, d.deps.Progress, d.logger, model.KindObjection, verdict.Judgement.Score)
	d.deps.Progress.RecordObjection(ctx, model.ObjectionRecord{
		Date:     d.deps.Clock.Now(),
		Question: question,
		Answer:   answer,
		Score:    verdict.Judgement.Score,
		Metrics:  verdict.Metrics(),
		Degraded: verdict.Degraded,
	})
	return d.view(), nil
}

// Next moves past an answered objection
func (d *ObjectionDrill) Next(ctx context.Context) (ObjectionView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.lc.ready(); err != nil {
		return ObjectionView{}, err
	}
	if d.state.Finished {
		return ObjectionView{}, model.ErrSessionFinished
	}
	if d.verdict == nil {
		return ObjectionView{}, model.ErrNotAnswered
	}

	d.deps.Sessions.Advance(ctx, d.state)
	d.verdict = nil
	return d.view(), nil
}

// Restart replaces the session with a fresh sample
func (d *ObjectionDrill) Restart(ctx context.Context) (ObjectionView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.lc.ready(); err != nil {
		return ObjectionView{}, err
	}
	d.state = d.deps.Sessions.Fresh(ctx, model.KindObjection, len(Objections), ObjectionSessionSize)
	d.verdict = nil
	return d.view(), nil
}

// CheckText returns an advisory spelling correction for a draft answer
func (d *ObjectionDrill) CheckText(ctx context.Context, text string) (model.SpellCheck, bool, error) {
	d.mu.Lock()
	mounted := d.lc.mounted
	d.mu.Unlock()
	if !mounted {
		return model.SpellCheck{}, false, model.ErrNotMounted
	}

	sc, ok := d.deps.Guard.CheckText(ctx, text)
	return sc, ok, nil
}

func (d *ObjectionDrill) view() ObjectionView {
	v := ObjectionView{
		Index:    d.state.CurrentIndex,
		Total:    d.state.Total(),
		Finished: d.state.Finished,
		Verdict:  d.verdict,
		Busy:     d.lc.busy,
	}
	if !d.state.Finished {
		v.Objection = Objections[d.state.Current()]
	}
	return v
}
