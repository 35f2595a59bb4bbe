package handler

import (
	"net/http"

	"github.com/rbt-academy/trainer/internal/api/middleware"
	"github.com/rbt-academy/trainer/internal/api/request"
	"github.com/rbt-academy/trainer/internal/api/response"
	"github.com/rbt-academy/trainer/internal/services/account"
	"github.com/rbt-academy/trainer/internal/services/exercise"
)

// SessionHandler handles sign-in and the current user
type SessionHandler struct {
	accounts *account.Service
	catalog  *exercise.Catalog
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(accounts *account.Service, catalog *exercise.Catalog) *SessionHandler {
	return &SessionHandler{
		accounts: accounts,
		catalog:  catalog,
	}
}

// Options handles GET /api/v1/session/options
func (h *SessionHandler) Options(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.LoginOptions())
}

// Login handles POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	// Open exercises belong to whoever was signed in before
	h.catalog.UnmountAll(r.Context())

	identity, err := h.accounts.Login(r.Context(), account.LoginRequest{
		Name:     req.Name,
		Store:    req.Store,
		Avatar:   req.Avatar,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.IdentityFromAccount(identity))
}

// Logout handles POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if req.Confirm {
		h.catalog.UnmountAll(r.Context())
	}
	if err := h.accounts.Logout(r.Context(), req.Confirm); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Me handles GET /api/v1/session/me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	response.JSON(w, http.StatusOK, response.IdentityFromAccount(identity))
}

// SetAvatar handles PUT /api/v1/session/avatar
func (h *SessionHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	var req request.AvatarRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Avatar == "" {
		WriteError(w, NewInvalidRequestError("avatar is required"))
		return
	}

	identity, err := h.accounts.SetAvatar(r.Context(), req.Avatar)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.IdentityFromAccount(identity))
}
