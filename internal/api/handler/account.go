package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/watchlist/internal/api/middleware"
	"github.com/mcoot/watchlist/internal/api/request"
	"github.com/mcoot/watchlist/internal/api/response"
	"github.com/mcoot/watchlist/internal/services/auth"
	"github.com/mcoot/watchlist/internal/services/watchlist"
)

// AccountHandler handles signup, login and profile endpoints
type AccountHandler struct {
	authService      *auth.Service
	watchlistService *watchlist.Service
	logger           *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *auth.Service, watchlistService *watchlist.Service, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		authService:      authService,
		watchlistService: watchlistService,
		logger:           logger,
	}
}

// Signup handles POST /signup and POST /api/signup
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	account, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AccountFromModel(account))
}

// Login handles POST /api/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TokenFromAuth(token))
}

// Profile handles GET /api/profile
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.MustGetAccountID(r.Context())

	profile, err := h.watchlistService.GetProfile(r.Context(), accountID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(profile))
}

// UpdateAvatar handles PATCH /api/update-avatar
func (h *AccountHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.MustGetAccountID(r.Context())

	var req request.UpdateAvatarRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	avatar, err := req.Value()
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	if err := h.watchlistService.SetAvatar(r.Context(), accountID, avatar); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AvatarUpdated{
		Message: "Avatar updated successfully",
		Avatar:  avatar,
	})
}
