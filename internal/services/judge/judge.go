// Package judge scores free-text answers and generates exercise content
// through an external language model.
package judge

import (
	"context"

	"github.com/rbt-academy/trainer/internal/model"
)

// Judge is the external judgement collaborator. Every call may be slow or
// fail; callers go through Guard to get fallbacks.
type Judge interface {
	// Available reports whether the collaborator is configured at all
	Available() bool

	CheckText(ctx context.Context, text string) (model.SpellCheck, error)
	ScoreAnswer(ctx context.Context, situation, answer string) (model.Judgement, error)
	NextTurn(ctx context.Context, history []model.ChatMessage, mood model.Mood, product model.Product) (string, error)
	GenerateQuiz(ctx context.Context, count int) ([]model.QuizQuestion, error)
	GenerateScenario(ctx context.Context) (model.SellScenario, error)
}

// Offline is a Judge with no backing service
type Offline struct{}

var _ Judge = Offline{}

func (Offline) Available() bool { return false }

func (Offline) CheckText(context.Context, string) (model.SpellCheck, error) {
	return model.SpellCheck{}, model.ErrJudgeUnavailable
}

func (Offline) ScoreAnswer(context.Context, string, string) (model.Judgement, error) {
	return model.Judgement{}, model.ErrJudgeUnavailable
}

func (Offline) NextTurn(context.Context, []model.ChatMessage, model.Mood, model.Product) (string, error) {
	return "", model.ErrJudgeUnavailable
}

func (Offline) GenerateQuiz(context.Context, int) ([]model.QuizQuestion, error) {
	return nil, model.ErrJudgeUnavailable
}

func (Offline) GenerateScenario(context.Context) (model.SellScenario, error) {
	return model.SellScenario{}, model.ErrJudgeUnavailable
}
