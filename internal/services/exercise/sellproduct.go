package exercise

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rbt-academy/trainer/internal/model"
)

// SellProductView is the visible state of the sell-the-product game
type SellProductView struct {
	Product   string          `json:"product"`
	Step      *model.SellStep `json:"step,omitempty"`
	Index     int             `json:"index"`
	Total     int             `json:"total"`
	Score     int             `json:"score"`
	Finished  bool            `json:"finished"`
	Last      *Result         `json:"last,omitempty"`
	Generated bool            `json:"generated"`
	Busy      bool            `json:"busy"`
}

// SellProduct plays a scripted sale. Choosing an option moves straight to
// the next client turn; the total is reported after the last one.
type SellProduct struct {
	deps   Deps
	logger *slog.Logger

	mu        sync.Mutex
	lc        lifecycle
	scenario  model.SellScenario
	generated bool
	state     *model.SessionState
	last      *Result
}

var _ Controller = (*SellProduct)(nil)

// NewSellProduct creates an unmounted game
func NewSellProduct(deps Deps) *SellProduct {
	return &SellProduct{
		deps:   deps,
		logger: deps.Logger.With(slog.String("component", "exercise"), slog.String("kind", string(model.KindSellProduct))),
	}
}

func (p *SellProduct) Kind() model.ExerciseKind {
	return model.KindSellProduct
}

// Mount generates a new scenario, falling back to a static one
func (p *SellProduct) Mount(ctx context.Context) (any, error) {
	p.mu.Lock()
	p.lc.mount()
	p.reset()
	t, _ := p.lc.acquire(p.deps.owner(ctx))
	p.mu.Unlock()

	scenario, generated := p.deps.Guard.Scenario(ctx, FallbackScenario)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.lc.release(t, p.deps.owner(ctx)) {
		return nil, model.ErrNotMounted
	}

	p.scenario = scenario
	p.generated = generated
	p.state = p.deps.Volatile.Sequence(ctx, model.KindSellProduct, len(scenario.Steps))
	return p.view(), nil
}

// Unmount discards the game
func (p *SellProduct) Unmount(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lc.unmount()
	p.reset()
	p.deps.Volatile.Discard(ctx, model.KindSellProduct)
}

func (p *SellProduct) View() (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lc.mounted {
		return nil, model.ErrNotMounted
	}
	return p.view(), nil
}

// Choose picks an option for the current client turn
func (p *SellProduct) Choose(ctx context.Context, option int) (SellProductView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.lc.ready(); err != nil {
		return SellProductView{}, err
	}
	if p.state.Finished {
		return SellProductView{}, model.ErrSessionFinished
	}
	step := p.scenario.Steps[p.state.Current()]
	if option < 0 || option >= len(step.Options) {
		return SellProductView{}, model.ErrInvalidOption
	}

	opt := step.Options[option]
	p.last = &Result{Score: opt.Score, Feedback: opt.Feedback}
	p.deps.Volatile.AddScore(ctx, p.state, opt.Score)
	if p.deps.Volatile.Advance(ctx, p.state) {
		report(ctx, p.deps.Progress, p.logger, model.KindSellProduct, p.state.Score)
	}
	return p.view(), nil
}

func (p *SellProduct) reset() {
	p.scenario = model.SellScenario{}
	p.generated = false
	p.state = nil
	p.last = nil
}

func (p *SellProduct) view() SellProductView {
	if p.state == nil {
		return SellProductView{Busy: p.lc.busy}
	}
	v := SellProductView{
		Product:   p.scenario.Product,
		Index:     p.state.CurrentIndex,
		Total:     p.state.Total(),
		Score:     p.state.Score,
		Finished:  p.state.Finished,
		Last:      p.last,
		Generated: p.generated,
		Busy:      p.lc.busy,
	}
	if !p.state.Finished {
		step := p.scenario.Steps[p.state.Current()]
		v.Step = &step
	}
	return v
}
