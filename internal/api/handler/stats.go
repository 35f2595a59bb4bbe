package handler

import (
	"net/http"

	"github.com/rbt-academy/trainer/internal/api/response"
	"github.com/rbt-academy/trainer/internal/services/stats"
)

// StatsHandler serves the dashboard, leaderboard and achievements
type StatsHandler struct {
	stats *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *stats.Service) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard handles GET /api/v1/dashboard
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.stats.Dashboard(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, dashboard)
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.stats.Leaderboard(r.Context()))
}

// Achievements handles GET /api/v1/achievements
func (h *StatsHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.stats.Achievements(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, achievements)
}
