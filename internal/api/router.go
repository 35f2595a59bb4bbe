package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rbt-academy/trainer/internal/api/handler"
	"github.com/rbt-academy/trainer/internal/api/middleware"
	"github.com/rbt-academy/trainer/internal/api/response"
	"github.com/rbt-academy/trainer/internal/api/sse"
	"github.com/rbt-academy/trainer/internal/services/account"
	"github.com/rbt-academy/trainer/internal/services/admin"
	"github.com/rbt-academy/trainer/internal/services/exercise"
	"github.com/rbt-academy/trainer/internal/services/judge"
	"github.com/rbt-academy/trainer/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AccountService *account.Service
	StatsService   *stats.Service
	AdminService   *admin.Service
	Catalog        *exercise.Catalog
	Guard          *judge.Guard
	Hub            *sse.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.AccountService, cfg.Catalog)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)
	exerciseHandler := handler.NewExerciseHandler(cfg.Catalog, cfg.Guard)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.Hub)

	requireUser := middleware.RequireUser(cfg.AccountService)
	requireAdmin := middleware.RequireAdmin(cfg.AdminService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Sign-in needs no session
	api.HandleFunc("/session/options", sessionHandler.Options).Methods(http.MethodGet)
	api.HandleFunc("/session/login", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/session/logout", sessionHandler.Logout).Methods(http.MethodPost)

	user := api.NewRoute().Subrouter()
	user.Use(requireUser)
	user.HandleFunc("/session/me", sessionHandler.Me).Methods(http.MethodGet)
	user.HandleFunc("/session/avatar", sessionHandler.SetAvatar).Methods(http.MethodPut)

	user.HandleFunc("/dashboard", statsHandler.Dashboard).Methods(http.MethodGet)
	user.HandleFunc("/leaderboard", statsHandler.Leaderboard).Methods(http.MethodGet)
	user.HandleFunc("/achievements", statsHandler.Achievements).Methods(http.MethodGet)

	user.HandleFunc("/exercises", exerciseHandler.List).Methods(http.MethodGet)
	user.HandleFunc("/exercises/{kind}", exerciseHandler.Mount).Methods(http.MethodPost)
	user.HandleFunc("/exercises/{kind}", exerciseHandler.Get).Methods(http.MethodGet)
	user.HandleFunc("/exercises/{kind}", exerciseHandler.Unmount).Methods(http.MethodDelete)
	user.HandleFunc("/exercises/{kind}/{action}", exerciseHandler.Act).Methods(http.MethodPost)

	admins := api.PathPrefix("/admin").Subrouter()
	admins.Use(requireAdmin)
	admins.HandleFunc("/users", adminHandler.Users).Methods(http.MethodGet)
	admins.HandleFunc("/users/{name}", adminHandler.User).Methods(http.MethodGet)
	admins.HandleFunc("/users/{name}/reset", adminHandler.Reset).Methods(http.MethodPost)
	admins.HandleFunc("/responses", adminHandler.Responses).Methods(http.MethodGet)
	admins.HandleFunc("/stats", adminHandler.Stats).Methods(http.MethodGet)
	admins.HandleFunc("/export", adminHandler.Export).Methods(http.MethodGet)
	admins.HandleFunc("/events", adminHandler.Events).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler(cfg.Guard)).Methods(http.MethodGet)

	return r
}

func healthHandler(guard *judge.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{
			Status:         "ok",
			JudgeAvailable: guard.Available(),
		})
	}
}
