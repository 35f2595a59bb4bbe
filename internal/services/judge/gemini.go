package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/rbt-academy/trainer/internal/model"
)

// MinKeyLength is the shortest API key treated as configured
const MinKeyLength = 11

// Config holds Gemini settings
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns default Gemini settings without a key
func DefaultConfig() Config {
	return Config{
		Model:   "gemini-3-flash-preview",
		Timeout: 30 * time.Second,
	}
}

// KeyConfigured reports whether key is long enough to be a real API key
func KeyConfigured(key string) bool {
	return len(strings.TrimSpace(key)) >= MinKeyLength
}

// Gemini is a Judge backed by the Gemini API
type Gemini struct {
	client *genai.Client
	cfg    Config
}

var _ Judge = (*Gemini)(nil)

// NewGemini creates a Gemini judge. It fails when the key is not configured.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if !KeyConfigured(cfg.APIKey) {
		return nil, model.ErrJudgeUnavailable
	}
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

// Available is always true for a constructed client
func (g *Gemini) Available() bool {
	return true
}

const trainerPersona = "You are a retail sales trainer at an electronics and appliance chain. " +
	"You assess shop assistants fairly and briefly."

func (g *Gemini) CheckText(ctx context.Context, text string) (model.SpellCheck, error) {
	prompt := fmt.Sprintf("Proofread the following reply from a shop assistant and fix spelling "+
		"and grammar. Reply as JSON with correctedText, errorsFound and explanation.\n\nReply: %q", text)

	var out model.SpellCheck
	err := g.generateJSON(ctx, prompt, spellCheckSchema, &out)
	return out, err
}

func (g *Gemini) ScoreAnswer(ctx context.Context, situation, answer string) (model.Judgement, error) {
	prompt := fmt.Sprintf("Situation: %q\nShop assistant's answer: %q\n\n"+
		"Rate persuasiveness, politeness, logic, clientOrientation and satisfaction from 0 to 10, "+
		"give short feedback, and award an XP score from 0 to 100.", situation, answer)

	var raw rawJudgement
	if err := g.generateJSON(ctx, prompt, judgementSchema, &raw); err != nil {
		return model.Judgement{}, err
	}
	return raw.toJudgement(), nil
}

func (g *Gemini) NextTurn(ctx context.Context, history []model.ChatMessage, mood model.Mood, product model.Product) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == model.RoleClient {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}

	system := fmt.Sprintf("You are a customer in an electronics store. Product: %s priced at %d. "+
		"Your mood: %s. Stay in character, be realistic, and answer in one or two sentences.",
		product.Name, product.BasePrice, mood)

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini next turn: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini next turn: empty reply")
	}
	return text, nil
}

func (g *Gemini) GenerateQuiz(ctx context.Context, count int) ([]model.QuizQuestion, error) {
	prompt := fmt.Sprintf("Write %d short questions customers ask in an electronics store about price "+
		"and warranty. For each give three answer options with an XP score from -20 to 30 and "+
		"one line of feedback.", count)

	var raw []struct {
		Question string      `json:"q"`
		Options  []rawOption `json:"options"`
	}
	if err := g.generateJSON(ctx, prompt, quizSchema, &raw); err != nil {
		return nil, err
	}

	questions := make([]model.QuizQuestion, 0, len(raw))
	for _, q := range raw {
		questions = append(questions, model.QuizQuestion{Question: q.Question, Options: toOptions(q.Options)})
	}
	return questions, nil
}

func (g *Gemini) GenerateScenario(ctx context.Context) (model.SellScenario, error) {
	prompt := "Write a three-step sales scenario in an electronics store. Name the product, and " +
		"for each step give the customer's line and three reply options with an XP score from " +
		"-20 to 30 and one line of feedback."

	var raw struct {
		Product string `json:"product"`
		Steps   []struct {
			Client  string      `json:"client"`
			Options []rawOption `json:"options"`
		} `json:"steps"`
	}
	if err := g.generateJSON(ctx, prompt, scenarioSchema, &raw); err != nil {
		return model.SellScenario{}, err
	}

	scenario := model.SellScenario{Product: raw.Product}
	for _, step := range raw.Steps {
		scenario.Steps = append(scenario.Steps, model.SellStep{Client: step.Client, Options: toOptions(step.Options)})
	}
	return scenario, nil
}

// generateJSON runs a single-prompt request constrained to schema and decodes the reply
func (g *Gemini) generateJSON(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(trainerPersona, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    schema,
		})
	if err != nil {
		return fmt.Errorf("gemini generate: %w", err)
	}
	return decodeJSON(resp.Text(), out)
}

func decodeJSON(text string, out any) error {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), out); err != nil {
		return fmt.Errorf("gemini reply is not valid JSON: %w", err)
	}
	return nil
}

// The model returns numbers that may carry fractions
type rawJudgement struct {
	Persuasiveness    float64 `json:"persuasiveness"`
	Politeness        float64 `json:"politeness"`
	Logic             float64 `json:"logic"`
	ClientOrientation float64 `json:"clientOrientation"`
	Satisfaction      float64 `json:"satisfaction"`
	Feedback          string  `json:"feedback"`
	Score             float64 `json:"score"`
}

func (r rawJudgement) toJudgement() model.Judgement {
	return model.Judgement{
		Persuasiveness:    round(r.Persuasiveness),
		Politeness:        round(r.Politeness),
		Logic:             round(r.Logic),
		ClientOrientation: round(r.ClientOrientation),
		Satisfaction:      round(r.Satisfaction),
		Feedback:          r.Feedback,
		Score:             round(r.Score),
	}
}

type rawOption struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

func toOptions(raw []rawOption) []model.QuizOption {
	out := make([]model.QuizOption, 0, len(raw))
	for _, o := range raw {
		out = append(out, model.QuizOption{Text: o.Text, Score: round(o.Score), Feedback: o.Feedback})
	}
	return out
}

func round(f float64) int {
	return int(math.Round(f))
}
