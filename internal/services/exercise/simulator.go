package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rbt-academy/trainer/internal/dependencies/random"
	"github.com/rbt-academy/trainer/internal/model"
)

const (
	// SimulatorTurns is the number of user messages after which the
	// dialogue is scored
	SimulatorTurns = 4
	// ShortAnswer is the length, in characters, below which an answer
	// raises the client's stress
	ShortAnswer = 15

	StressRise   = 25
	StressRelief = 10
	MaxStress    = 100

	ClientLeftPenalty      = -50
	ProfanityPenalty       = -100
	SimulatorFallbackScore = 10
)

const (
	clientLeftLine    = "You know, you've completely confused me. I'll go look in another store."
	profanityLine     = "This is outrageous! I won't tolerate being spoken to like this. Goodbye!"
	fallbackReplyLine = "Hmm, I see. What else can you tell me about it?"
	recordType        = "simulator"
)

// SimulatorView is the visible state of a simulated conversation
type SimulatorView struct {
	Product  model.Product       `json:"product"`
	Mood     model.Mood          `json:"mood"`
	Stress   int                 `json:"stress"`
	Messages []model.ChatMessage `json:"messages"`
	Over     bool                `json:"over"`
	Outcome  model.ChatOutcome   `json:"outcome,omitempty"`
	Score    int                 `json:"score"`
	Verdict  *model.Verdict      `json:"verdict,omitempty"`
	Busy     bool                `json:"busy"`
}

type conversation struct {
	product  model.Product
	mood     model.Mood
	stress   int
	messages []model.ChatMessage
	over     bool
	outcome  model.ChatOutcome
	score    int
	verdict  *model.Verdict
}

// Simulator runs a multi-turn chat with a simulated client. Conversations
// are not persisted.
type Simulator struct {
	deps   Deps
	logger *slog.Logger

	mu   sync.Mutex
	lc   lifecycle
	conv *conversation
}

var _ Controller = (*Simulator)(nil)

// NewSimulator creates an unmounted Simulator
func NewSimulator(deps Deps) *Simulator {
	return &Simulator{
		deps:   deps,
		logger: deps.Logger.With(slog.String("component", "exercise"), slog.String("kind", string(model.KindSimulator))),
	}
}

func (s *Simulator) Kind() model.ExerciseKind {
	return model.KindSimulator
}

// Mount starts a new conversation with a neutral client
func (s *Simulator) Mount(ctx context.Context) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lc.mount()
	s.conv = s.start(model.MoodNeutral)
	return s.view(), nil
}

// Unmount discards the conversation
func (s *Simulator) Unmount(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lc.unmount()
	s.conv = nil
}

func (s *Simulator) View() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lc.mounted {
		return nil, model.ErrNotMounted
	}
	return s.view(), nil
}

// Restart begins a new conversation about a new product, keeping the mood
func (s *Simulator) Restart(ctx context.Context) (SimulatorView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lc.ready(); err != nil {
		return SimulatorView{}, err
	}
	s.conv = s.start(s.conv.mood)
	return s.view(), nil
}

// SetMood changes the client's temperament and resets stress to the
// mood's starting level
func (s *Simulator) SetMood(ctx context.Context, mood model.Mood) (SimulatorView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lc.ready(); err != nil {
		return SimulatorView{}, err
	}
	if s.conv.over {
		return SimulatorView{}, model.ErrConversationOver
	}
	s.conv.mood = mood
	s.conv.stress = mood.InitialStress()
	return s.view(), nil
}

// Send adds a user message and produces the client's answer. Profanity
// or saturated stress end the conversation with a penalty and no
// judgement call; otherwise the dialogue is scored after SimulatorTurns
// user messages.
func (s *Simulator) Send(ctx context.Context, text string) (SimulatorView, error) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if err := s.lc.ready(); err != nil {
		s.mu.Unlock()
		return SimulatorView{}, err
	}
	if s.conv.over {
		s.mu.Unlock()
		return SimulatorView{}, model.ErrConversationOver
	}
	if text == "" {
		s.mu.Unlock()
		return SimulatorView{}, model.ErrEmptyAnswer
	}

	c := s.conv
	c.messages = append(c.messages, model.ChatMessage{Role: model.RoleUser, Text: text})

	if s.deps.Profanity.Contains(text) {
		c.messages = append(c.messages, model.ChatMessage{Role: model.RoleClient, Text: profanityLine})
		s.finish(ctx, model.ChatProfanity, ProfanityPenalty, nil)
		v := s.view()
		s.mu.Unlock()
		return v, nil
	}

	if utf8.RuneCountInString(text) < ShortAnswer {
		c.stress = min(c.stress+StressRise, MaxStress)
	} else {
		c.stress = max(c.stress-StressRelief, 0)
	}
	if c.stress >= MaxStress {
		c.messages = append(c.messages, model.ChatMessage{Role: model.RoleClient, Text: clientLeftLine})
		s.finish(ctx, model.ChatClientLeft, ClientLeftPenalty, nil)
		v := s.view()
		s.mu.Unlock()
		return v, nil
	}

	t, _ := s.lc.acquire(s.deps.owner(ctx))
	history := slices.Clone(c.messages)
	mood, product := c.mood, c.product
	evaluate := userTurns(history) >= SimulatorTurns
	s.mu.Unlock()

	reply, _ := s.deps.Guard.NextTurn(ctx, history, mood, product, fallbackReplyLine)
	var verdict model.Verdict
	if evaluate {
		transcript := append(history, model.ChatMessage{Role: model.RoleClient, Text: reply})
		verdict = s.deps.Guard.Score(ctx, "Dialogue about "+product.Name, Transcript(transcript),
			SimulatorFallbackScore, AcceptedFeedback)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lc.release(t, s.deps.owner(ctx)) {
		s.logger.Info("late judgement dropped")
		return SimulatorView{}, model.ErrNotMounted
	}

	c.messages = append(c.messages, model.ChatMessage{Role: model.RoleClient, Text: reply})
	if evaluate {
		s.finish(ctx, model.ChatEvaluated, verdict.Judgement.Score, &verdict)
	}
	return s.view(), nil
}

// CheckText returns an advisory spelling correction for a draft message
func (s *Simulator) CheckText(ctx context.Context, text string) (model.SpellCheck, bool, error) {
	s.mu.Lock()
	mounted := s.lc.mounted
	s.mu.Unlock()
	if !mounted {
		return model.SpellCheck{}, false, model.ErrNotMounted
	}

	sc, ok := s.deps.Guard.CheckText(ctx, text)
	return sc, ok, nil
}

func (s *Simulator) start(mood model.Mood) *conversation {
	product := random.Pick(s.deps.Random, Products)
	return &conversation{
		product: product,
		mood:    mood,
		stress:  mood.InitialStress(),
		messages: []model.ChatMessage{
			{Role: model.RoleClient, Text: OpeningLine(product)},
		},
	}
}

// finish closes the conversation, reports the score and records it in the
// user's history. Callers hold s.mu.
func (s *Simulator) finish(ctx context.Context, outcome model.ChatOutcome, score int, verdict *model.Verdict) {
	c := s.conv
	c.over = true
	c.outcome = outcome
	c.score = score
	c.verdict = verdict

	report(ctx, s.deps.Progress, s.logger, model.KindSimulator, score)

	rec := model.SimulatorRecord{
		ID:       uuid.NewString(),
		Type:     recordType,
		Date:     s.deps.Clock.Now(),
		Product:  c.product.Name,
		Mood:     c.mood,
		Messages: slices.Clone(c.messages),
		Score:    score,
		Outcome:  outcome,
	}
	if verdict != nil {
		rec.Metrics = verdict.Metrics()
		rec.Degraded = verdict.Degraded
	}
	s.deps.Progress.RecordSimulator(ctx, rec)

	s.logger.Info("conversation over",
		slog.String("outcome", string(outcome)),
		slog.Int("score", score))
}

func (s *Simulator) view() SimulatorView {
	c := s.conv
	return SimulatorView{
		Product:  c.product,
		Mood:     c.mood,
		Stress:   c.stress,
		Messages: slices.Clone(c.messages),
		Over:     c.over,
		Outcome:  c.outcome,
		Score:    c.score,
		Verdict:  c.verdict,
		Busy:     s.lc.busy,
	}
}

// OpeningLine is the client's first message about a product
func OpeningLine(p model.Product) string {
	return fmt.Sprintf("Good afternoon. I'm looking at this %s, but the price of %d rub. seems too high to me...", p.Name, p.BasePrice)
}

// Transcript renders a dialogue for scoring, one speaker-prefixed line per message
func Transcript(messages []model.ChatMessage) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		speaker := "Client"
		if m.Role == model.RoleUser {
			speaker = "Seller"
		}
		lines[i] = speaker + ": " + m.Text
	}
	return strings.Join(lines, "\n")
}

func userTurns(messages []model.ChatMessage) int {
	n := 0
	for _, m := range messages {
		if m.Role == model.RoleUser {
			n++
		}
	}
	return n
}
