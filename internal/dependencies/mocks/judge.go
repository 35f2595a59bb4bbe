package mocks

import (
	"context"
	"sync"

	"github.com/rbt-academy/trainer/internal/model"
)

// MockJudge is a scriptable judgement collaborator. Unset funcs return
// fixed, valid defaults.
type MockJudge struct {
	Unavailable bool

	CheckTextFunc func(ctx context.Context, text string) (model.SpellCheck, error)
	ScoreFunc     func(ctx context.Context, situation, answer string) (model.Judgement, error)
	NextTurnFunc  func(ctx context.Context, history []model.ChatMessage, mood model.Mood, product model.Product) (string, error)
	QuizFunc      func(ctx context.Context, count int) ([]model.QuizQuestion, error)
	ScenarioFunc  func(ctx context.Context) (model.SellScenario, error)

	mu            sync.Mutex
	scoreCalls    int
	nextTurnCalls int
}

// NewMockJudge creates an available MockJudge
func NewMockJudge() *MockJudge {
	return &MockJudge{}
}

// DefaultJudgement is what ScoreAnswer returns when ScoreFunc is unset
var DefaultJudgement = model.Judgement{
	Persuasiveness:    7,
	Politeness:        8,
	Logic:             7,
	ClientOrientation: 8,
	Satisfaction:      7,
	Feedback:          "Good answer.",
	Score:             30,
}

func (j *MockJudge) Available() bool {
	return !j.Unavailable
}

func (j *MockJudge) CheckText(ctx context.Context, text string) (model.SpellCheck, error) {
	if j.CheckTextFunc != nil {
		return j.CheckTextFunc(ctx, text)
	}
	return model.SpellCheck{CorrectedText: text}, nil
}

func (j *MockJudge) ScoreAnswer(ctx context.Context, situation, answer string) (model.Judgement, error) {
	j.mu.Lock()
	j.scoreCalls++
	j.mu.Unlock()
	if j.ScoreFunc != nil {
		return j.ScoreFunc(ctx, situation, answer)
	}
	return DefaultJudgement, nil
}

func (j *MockJudge) NextTurn(ctx context.Context, history []model.ChatMessage, mood model.Mood, product model.Product) (string, error) {
	j.mu.Lock()
	j.nextTurnCalls++
	j.mu.Unlock()
	if j.NextTurnFunc != nil {
		return j.NextTurnFunc(ctx, history, mood, product)
	}
	return "Tell me more.", nil
}

func (j *MockJudge) GenerateQuiz(ctx context.Context, count int) ([]model.QuizQuestion, error) {
	if j.QuizFunc != nil {
		return j.QuizFunc(ctx, count)
	}
	return nil, model.ErrJudgeUnavailable
}

func (j *MockJudge) GenerateScenario(ctx context.Context) (model.SellScenario, error) {
	if j.ScenarioFunc != nil {
		return j.ScenarioFunc(ctx)
	}
	return model.SellScenario{}, model.ErrJudgeUnavailable
}

// ScoreCalls returns how many times ScoreAnswer ran
func (j *MockJudge) ScoreCalls() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.scoreCalls
}

// NextTurnCalls returns how many times NextTurn ran
func (j *MockJudge) NextTurnCalls() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.nextTurnCalls
}
