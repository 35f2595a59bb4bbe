package exercise

import (
	"context"
	"errors"

	"github.com/rbt-academy/trainer/internal/model"
)

// Info describes an exercise in the catalogue
type Info struct {
	Kind        model.ExerciseKind `json:"kind"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Persisted   bool               `json:"persisted"`
	Mounted     bool               `json:"mounted"`
}

var descriptions = map[model.ExerciseKind]Info{
	model.KindObjection: {
		Title:       "Objection handling",
		Description: "Answer ten customer objections; every answer is scored on its own.",
		Persisted:   true,
	},
	model.KindSimulator: {
		Title:       "Client simulator",
		Description: "Talk a simulated customer through a purchase. Short answers make them nervous.",
	},
	model.KindQuickReply: {
		Title:       "Quick reply",
		Description: "Three questions, fifteen seconds each.",
	},
	model.KindFixError: {
		Title:       "Fix the mistake",
		Description: "Rewrite five unprofessional replies.",
	},
	model.KindSellProduct: {
		Title:       "Sell the product",
		Description: "Pick the best line at each step of a sale.",
	},
}

// Catalog holds one controller per exercise kind
type Catalog struct {
	Objection   *ObjectionDrill
	Simulator   *Simulator
	QuickReply  *QuickReply
	FixError    *FixError
	SellProduct *SellProduct

	controllers map[model.ExerciseKind]Controller
}

// NewCatalog creates every controller over the shared deps
func NewCatalog(deps Deps) *Catalog {
	c := &Catalog{
		Objection:   NewObjectionDrill(deps),
		Simulator:   NewSimulator(deps),
		QuickReply:  NewQuickReply(deps),
		FixError:    NewFixError(deps),
		SellProduct: NewSellProduct(deps),
	}
	c.controllers = map[model.ExerciseKind]Controller{
		model.KindObjection:   c.Objection,
		model.KindSimulator:   c.Simulator,
		model.KindQuickReply:  c.QuickReply,
		model.KindFixError:    c.FixError,
		model.KindSellProduct: c.SellProduct,
	}
	return c
}

// Get returns the controller for kind
func (c *Catalog) Get(kind model.ExerciseKind) (Controller, error) {
	ctrl, ok := c.controllers[kind]
	if !ok {
		return nil, model.ErrUnknownExercise
	}
	return ctrl, nil
}

// Mount mounts the controller for kind and returns its view
func (c *Catalog) Mount(ctx context.Context, kind model.ExerciseKind) (any, error) {
	ctrl, err := c.Get(kind)
	if err != nil {
		return nil, err
	}
	return ctrl.Mount(ctx)
}

// Unmount unmounts the controller for kind
func (c *Catalog) Unmount(ctx context.Context, kind model.ExerciseKind) error {
	ctrl, err := c.Get(kind)
	if err != nil {
		return err
	}
	ctrl.Unmount(ctx)
	return nil
}

// UnmountAll unmounts every controller, as on sign-out
func (c *Catalog) UnmountAll(ctx context.Context) {
	for _, kind := range model.ExerciseKinds {
		c.controllers[kind].Unmount(ctx)
	}
}

// View returns the current view for kind
func (c *Catalog) View(kind model.ExerciseKind) (any, error) {
	ctrl, err := c.Get(kind)
	if err != nil {
		return nil, err
	}
	return ctrl.View()
}

// List describes every exercise in catalogue order
func (c *Catalog) List() []Info {
	out := make([]Info, 0, len(model.ExerciseKinds))
	for _, kind := range model.ExerciseKinds {
		info := descriptions[kind]
		info.Kind = kind
		_, err := c.controllers[kind].View()
		info.Mounted = !errors.Is(err, model.ErrNotMounted)
		out = append(out, info)
	}
	return out
}
