package judge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rbt-academy/trainer/internal/model"
)

// Guard wraps a Judge so that every failure, timeout or malformed result
// becomes a local fallback instead of an error.
type Guard struct {
	judge  Judge
	logger *slog.Logger
}

// NewGuard creates a Guard; a nil judge behaves as Offline
func NewGuard(judge Judge, logger *slog.Logger) *Guard {
	if judge == nil {
		judge = Offline{}
	}
	return &Guard{
		judge:  judge,
		logger: logger.With(slog.String("component", "judge")),
	}
}

// Available reports whether the collaborator is configured
func (g *Guard) Available() bool {
	return g.judge.Available()
}

// Score judges an answer, falling back to a fixed score and feedback
func (g *Guard) Score(ctx context.Context, situation, answer string, fallbackScore int, fallbackFeedback string) model.Verdict {
	if !g.judge.Available() {
		return model.Degraded(fallbackScore, fallbackFeedback, model.ErrJudgeUnavailable.Error())
	}

	j, err := g.judge.ScoreAnswer(ctx, situation, answer)
	if err == nil {
		err = j.Validate()
	}
	if err != nil {
		g.warn("score", err)
		return model.Degraded(fallbackScore, fallbackFeedback, err.Error())
	}
	return model.Ok(j)
}

// CheckText returns an advisory correction. When degraded it returns the
// text unchanged and false.
func (g *Guard) CheckText(ctx context.Context, text string) (model.SpellCheck, bool) {
	unchanged := model.SpellCheck{CorrectedText: text}
	if !g.judge.Available() {
		return unchanged, false
	}

	sc, err := g.judge.CheckText(ctx, text)
	if err == nil && strings.TrimSpace(sc.CorrectedText) == "" {
		err = errors.New("empty correction")
	}
	if err != nil {
		g.warn("check text", err)
		return unchanged, false
	}
	return sc, true
}

// NextTurn produces the simulated client's reply, or fallback when degraded
func (g *Guard) NextTurn(ctx context.Context, history []model.ChatMessage, mood model.Mood, product model.Product, fallback string) (string, bool) {
	if !g.judge.Available() {
		return fallback, false
	}

	reply, err := g.judge.NextTurn(ctx, history, mood, product)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty reply")
	}
	if err != nil {
		g.warn("next turn", err)
		return fallback, false
	}
	return reply, true
}

// Quiz generates count questions, or returns fallback when degraded
func (g *Guard) Quiz(ctx context.Context, count int, fallback []model.QuizQuestion) ([]model.QuizQuestion, bool) {
	if !g.judge.Available() {
		return fallback, false
	}

	questions, err := g.judge.GenerateQuiz(ctx, count)
	if err == nil {
		err = validateQuiz(questions)
	}
	if err != nil {
		g.warn("quiz", err)
		return fallback, false
	}
	return questions, true
}

// Scenario generates a sell-the-product script, or returns fallback when degraded
func (g *Guard) Scenario(ctx context.Context, fallback model.SellScenario) (model.SellScenario, bool) {
	if !g.judge.Available() {
		return fallback, false
	}

	scenario, err := g.judge.GenerateScenario(ctx)
	if err == nil {
		err = validateScenario(scenario)
	}
	if err != nil {
		g.warn("scenario", err)
		return fallback, false
	}
	return scenario, true
}

func (g *Guard) warn(call string, err error) {
	g.logger.Warn("judgement degraded",
		slog.String("call", call),
		slog.Any("error", err))
}

func validateOptions(options []model.QuizOption) error {
	if len(options) == 0 {
		return errors.New("no options")
	}
	for _, o := range options {
		if strings.TrimSpace(o.Text) == "" {
			return errors.New("empty option")
		}
		if o.Score < -model.MaxScore || o.Score > model.MaxScore {
			return fmt.Errorf("option score out of range: %d", o.Score)
		}
	}
	return nil
}

func validateQuiz(questions []model.QuizQuestion) error {
	if len(questions) == 0 {
		return errors.New("no questions")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d is empty", i)
		}
		if err := validateOptions(q.Options); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

func validateScenario(s model.SellScenario) error {
	if strings.TrimSpace(s.Product) == "" || len(s.Steps) == 0 {
		return errors.New("incomplete scenario")
	}
	for i, step := range s.Steps {
		if err := validateOptions(step.Options); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}
