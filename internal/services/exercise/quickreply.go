package exercise

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rbt-academy/trainer/internal/dependencies/clock"
	"github.com/rbt-academy/trainer/internal/model"
)

const (
	// QuizSize is the number of questions per quiz
	QuizSize = 3
	// QuestionTime is how long the user has to pick an option
	QuestionTime = 15 * time.Second

	TimeoutPenalty      = -25
	TimeoutFeedback     = "Time's up!"
	CustomFallbackScore = 10
)

// Result is the outcome of one answered question or step
type Result struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
	TimedOut bool   `json:"timedOut,omitempty"`
	Custom   bool   `json:"custom,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

// QuickReplyView is the visible state of the quick-reply quiz
type QuickReplyView struct {
	Question  *model.QuizQuestion `json:"question,omitempty"`
	Index     int                 `json:"index"`
	Total     int                 `json:"total"`
	Score     int                 `json:"score"`
	Deadline  *time.Time          `json:"deadline,omitempty"`
	Finished  bool                `json:"finished"`
	Result    *Result             `json:"result,omitempty"`
	Generated bool                `json:"generated"`
	Busy      bool                `json:"busy"`
}

// QuickReply is a timed multiple-choice quiz. A free-text answer may be
// given instead of an option; it is scored by the judge and not subject to
// the deadline. The total is reported once, when the last question is left.
type QuickReply struct {
	deps   Deps
	logger *slog.Logger

	mu        sync.Mutex
	lc        lifecycle
	questions []model.QuizQuestion
	generated bool
	state     *model.SessionState
	deadline  time.Time
	result    *Result
}

var _ Controller = (*QuickReply)(nil)

// NewQuickReply creates an unmounted quiz
func NewQuickReply(deps Deps) *QuickReply {
	return &QuickReply{
		deps:   deps,
		logger: deps.Logger.With(slog.String("component", "exercise"), slog.String("kind", string(model.KindQuickReply))),
	}
}

func (q *QuickReply) Kind() model.ExerciseKind {
	return model.KindQuickReply
}

// Mount generates a new set of questions, falling back to a static set
func (q *QuickReply) Mount(ctx context.Context) (any, error) {
	q.mu.Lock()
	q.lc.mount()
	q.reset()
	t, _ := q.lc.acquire(q.deps.owner(ctx))
	q.mu.Unlock()

	questions, generated := q.deps.Guard.Quiz(ctx, QuizSize, FallbackQuiz)
	if len(questions) > QuizSize {
		questions = questions[:QuizSize]
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.lc.release(t, q.deps.owner(ctx)) {
		return nil, model.ErrNotMounted
	}

	q.questions = questions
	q.generated = generated
	q.state = q.deps.Volatile.Sequence(ctx, model.KindQuickReply, len(questions))
	q.deadline = clock.Deadline(q.deps.Clock, QuestionTime)
	return q.view(), nil
}

// Unmount discards the quiz
func (q *QuickReply) Unmount(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.lc.unmount()
	q.reset()
	q.deps.Volatile.Discard(ctx, model.KindQuickReply)
}

func (q *QuickReply) View() (any, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.lc.mounted {
		return nil, model.ErrNotMounted
	}
	return q.view(), nil
}

// Choose answers the current question with an option. Past the deadline
// the answer counts as a timeout.
func (q *QuickReply) Choose(ctx context.Context, option int) (QuickReplyView, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.answerable(); err != nil {
		return QuickReplyView{}, err
	}
	question := q.questions[q.state.Current()]
	if option < 0 || option >= len(question.Options) {
		return QuickReplyView{}, model.ErrInvalidOption
	}

	if clock.Expired(q.deps.Clock, q.deadline) {
		q.answer(ctx, timeoutResult())
		return q.view(), nil
	}
	opt := question.Options[option]
	q.answer(ctx, Result{Score: opt.Score, Feedback: opt.Feedback})
	return q.view(), nil
}

// Timeout scores the current question as unanswered in time
func (q *QuickReply) Timeout(ctx context.Context) (QuickReplyView, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.answerable(); err != nil {
		return QuickReplyView{}, err
	}
	q.answer(ctx, timeoutResult())
	return q.view(), nil
}

// Custom answers the current question in free text. The answer is scored
// by the judge and appended to the custom-answer log.
func (q *QuickReply) Custom(ctx context.Context, text string) (QuickReplyView, error) {
	text = strings.TrimSpace(text)

	q.mu.Lock()
	if err := q.answerable(); err != nil {
		q.mu.Unlock()
		return QuickReplyView{}, err
	}
	if text == "" {
		q.mu.Unlock()
		return QuickReplyView{}, model.ErrEmptyAnswer
	}
	t, _ := q.lc.acquire(q.deps.owner(ctx))
	question := q.questions[q.state.Current()].Question
	q.mu.Unlock()

	verdict := q.deps.Guard.Score(ctx, "Customer question: "+question, text, CustomFallbackScore, AcceptedFeedback)

	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.lc.release(t, q.deps.owner(ctx)) {
		q.logger.Info("late judgement dropped")
		return QuickReplyView{}, model.ErrNotMounted
	}

	q.deps.Responses.Append(ctx, model.CustomResponse{
		Name:     q.deps.Progress.CurrentName(ctx),
		Question: question,
		Response: text,
		Score:    verdict.Judgement.Score,
		Feedback: verdict.Judgement.Feedback,
	})
	q.answer(ctx, Result{
		Score:    verdict.Judgement.Score,
		Feedback: verdict.Judgement.Feedback,
		Custom:   true,
		Degraded: verdict.Degraded,
	})
	return q.view(), nil
}

// Next moves past an answered question. Leaving the last one finishes the
// quiz and reports the total.
func (q *QuickReply) Next(ctx context.Context) (QuickReplyView, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.lc.ready(); err != nil {
		return QuickReplyView{}, err
	}
	if q.state.Finished {
		return QuickReplyView{}, model.ErrSessionFinished
	}
	if q.result == nil {
		return QuickReplyView{}, model.ErrNotAnswered
	}

	q.result = nil
	if q.deps.Volatile.Advance(ctx, q.state) {
		report(ctx, q.deps.Progress, q.logger, model.KindQuickReply, q.state.Score)
	} else {
		q.deadline = clock.Deadline(q.deps.Clock, QuestionTime)
	}
	return q.view(), nil
}

func (q *QuickReply) answerable() error {
	if err := q.lc.ready(); err != nil {
		return err
	}
	if q.state.Finished {
		return model.ErrSessionFinished
	}
	if q.result != nil {
		return model.ErrAlreadyAnswered
	}
	return nil
}

func (q *QuickReply) answer(ctx context.Context, r Result) {
	q.result = &r
	q.deps.Volatile.AddScore(ctx, q.state, r.Score)
}

func (q *QuickReply) reset() {
	q.questions = nil
	q.generated = false
	q.state = nil
	q.result = nil
}

func (q *QuickReply) view() QuickReplyView {
	if q.state == nil {
		return QuickReplyView{Busy: q.lc.busy}
	}
	v := QuickReplyView{
		Index:     q.state.CurrentIndex,
		Total:     q.state.Total(),
		Score:     q.state.Score,
		Finished:  q.state.Finished,
		Result:    q.result,
		Generated: q.generated,
		Busy:      q.lc.busy,
	}
	if !q.state.Finished {
		question := q.questions[q.state.Current()]
		v.Question = &question
		if q.result == nil {
			deadline := q.deadline
			v.Deadline = &deadline
		}
	}
	return v
}

func timeoutResult() Result {
	return Result{Score: TimeoutPenalty, Feedback: TimeoutFeedback, TimedOut: true}
}
