package handler

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rbt-academy/trainer/internal/api/request"
	"github.com/rbt-academy/trainer/internal/api/response"
	"github.com/rbt-academy/trainer/internal/api/sse"
	"github.com/rbt-academy/trainer/internal/services/admin"
)

// ExportFilename is the attachment name of the registry export
const ExportFilename = "rbt-academy-users.xlsx"

// AdminHandler handles the administrative endpoints
type AdminHandler struct {
	admin *admin.Service
	hub   *sse.Hub
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *admin.Service, hub *sse.Hub) *AdminHandler {
	return &AdminHandler{
		admin: admin,
		hub:   hub,
	}
}

// Users handles GET /api/v1/admin/users
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.Users(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, users)
}

// User handles GET /api/v1/admin/users/{name}
func (h *AdminHandler) User(w http.ResponseWriter, r *http.Request) {
	entry, err := h.admin.User(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, entry)
}

// Reset handles POST /api/v1/admin/users/{name}/reset
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.admin.Reset(r.Context(), mux.Vars(r)["name"], req.Confirm); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Responses handles GET /api/v1/admin/responses
func (h *AdminHandler) Responses(w http.ResponseWriter, r *http.Request) {
	responses, err := h.admin.Responses(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, responses)
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

// Export handles GET /api/v1/admin/export
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.admin.Export(r.Context(), &buf); err != nil {
		WriteError(w, err)
		return
	}

	response.Attachment(w, ExportFilename, response.XLSXContentType, buf.Bytes())
}

// Events handles GET /api/v1/admin/events
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub)
}
