package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rbt-academy/trainer/internal/api/apierr"
	"github.com/rbt-academy/trainer/internal/api/request"
	"github.com/rbt-academy/trainer/internal/api/response"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/exercise"
	"github.com/rbt-academy/trainer/internal/services/judge"
)

// action runs one exercise-specific operation and returns the new view
type action func(ctx context.Context, r *http.Request) (any, error)

// ExerciseHandler handles the exercise catalogue and every controller's
// actions under /api/v1/exercises/{kind}
type ExerciseHandler struct {
	catalog *exercise.Catalog
	guard   *judge.Guard
	actions map[model.ExerciseKind]map[string]action
}

// NewExerciseHandler creates a new exercise handler
func NewExerciseHandler(catalog *exercise.Catalog, guard *judge.Guard) *ExerciseHandler {
	h := &ExerciseHandler{
		catalog: catalog,
		guard:   guard,
	}
	h.actions = map[model.ExerciseKind]map[string]action{
		model.KindObjection: {
			"submit": withText(func(ctx context.Context, text string) (any, error) {
				return catalog.Objection.Submit(ctx, text)
			}),
			"next": func(ctx context.Context, _ *http.Request) (any, error) {
				return catalog.Objection.Next(ctx)
			},
			"restart": func(ctx context.Context, _ *http.Request) (any, error) {
				return catalog.Objection.Restart(ctx)
			},
			"check-text": withText(func(ctx context.Context, text string) (any, error) {
				return spellCheck(catalog.Objection.CheckText(ctx, text))
			}),
		},
		model.KindSimulator: {
			"send": withText(func(ctx context.Context, text string) (any, error) {
				return catalog.Simulator.Send(ctx, text)
			}),
			"mood": func(ctx context.Context, r *http.Request) (any, error) {
				var req request.MoodRequest
				if err := decode(r, &req); err != nil {
					return nil, err
				}
				mood, err := model.ParseMood(req.Mood)
				if err != nil {
					return nil, err
				}
				return catalog.Simulator.SetMood(ctx, mood)
			},
			"restart": func(ctx context.Context, _ *http.Request) (any, error) {
				return catalog.Simulator.Restart(ctx)
			},
			"check-text": withText(func(ctx context.Context, text string) (any, error) {
				return spellCheck(catalog.Simulator.CheckText(ctx, text))
			}),
		},
		model.KindQuickReply: {
			"choose": withOption(catalog.QuickReply.Choose),
			"timeout": func(ctx context.Context, _ *http.Request) (any, error) {
				return catalog.QuickReply.Timeout(ctx)
			},
			"custom": withText(func(ctx context.Context, text string) (any, error) {
				return catalog.QuickReply.Custom(ctx, text)
			}),
			"next": func(ctx context.Context, _ *http.Request) (any, error) {
				return catalog.QuickReply.Next(ctx)
			},
		},
		model.KindFixError: {
			"submit": withText(func(ctx context.Context, text string) (any, error) {
				return catalog.FixError.Submit(ctx, text)
			}),
			"next": func(ctx context.Context, _ *http.Request) (any, error) {
				return catalog.FixError.Next(ctx)
			},
		},
		model.KindSellProduct: {
			"choose": withOption(catalog.SellProduct.Choose),
		},
	}
	return h
}

// List handles GET /api/v1/exercises
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Exercises{
		Exercises:      h.catalog.List(),
		JudgeAvailable: h.guard.Available(),
	})
}

// Mount handles POST /api/v1/exercises/{kind}
func (h *ExerciseHandler) Mount(w http.ResponseWriter, r *http.Request) {
	kind := model.ExerciseKind(mux.Vars(r)["kind"])

	view, err := h.catalog.Mount(r.Context(), kind)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Exercise{Kind: kind, View: view})
}

// Get handles GET /api/v1/exercises/{kind}
func (h *ExerciseHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind := model.ExerciseKind(mux.Vars(r)["kind"])

	view, err := h.catalog.View(kind)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Exercise{Kind: kind, View: view})
}

// Unmount handles DELETE /api/v1/exercises/{kind}
func (h *ExerciseHandler) Unmount(w http.ResponseWriter, r *http.Request) {
	kind := model.ExerciseKind(mux.Vars(r)["kind"])

	if err := h.catalog.Unmount(r.Context(), kind); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Act handles POST /api/v1/exercises/{kind}/{action}
func (h *ExerciseHandler) Act(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := model.ExerciseKind(vars["kind"])
	name := vars["action"]

	actions, ok := h.actions[kind]
	if !ok {
		WriteError(w, model.ErrUnknownExercise)
		return
	}
	act, ok := actions[name]
	if !ok {
		WriteError(w, apierr.NewUnsupportedActionError(name))
		return
	}

	result, err := act(r.Context(), r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if _, isCheck := result.(response.SpellCheck); isCheck {
		response.JSON(w, http.StatusOK, result)
		return
	}
	response.JSON(w, http.StatusOK, response.Exercise{Kind: kind, View: result})
}

func withText(fn func(ctx context.Context, text string) (any, error)) action {
	return func(ctx context.Context, r *http.Request) (any, error) {
		var req request.TextRequest
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		return fn(ctx, req.Text)
	}
}

func withOption[V any](fn func(ctx context.Context, option int) (V, error)) action {
	return func(ctx context.Context, r *http.Request) (any, error) {
		var req request.ChooseRequest
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		if req.Option == nil {
			return nil, NewInvalidRequestError("option is required")
		}
		return fn(ctx, *req.Option)
	}
}

func spellCheck(sc model.SpellCheck, ok bool, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return response.SpellCheck{SpellCheck: sc, Degraded: !ok}, nil
}
