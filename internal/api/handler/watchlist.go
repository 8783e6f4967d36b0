package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/watchlist/internal/api/middleware"
	"github.com/mcoot/watchlist/internal/api/request"
	"github.com/mcoot/watchlist/internal/api/response"
	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/services/watchlist"
)

// WatchlistHandler handles watchlist endpoints
type WatchlistHandler struct {
	watchlistService *watchlist.Service
	logger           *slog.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(watchlistService *watchlist.Service, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
		logger:           logger,
	}
}

// Add handles POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.MustGetAccountID(r.Context())

	var req request.AddEntryRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	if err := h.watchlistService.AddEntry(r.Context(), accountID, req.Entry()); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.OK(w, "Added to watchlist")
}

// List handles GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.MustGetAccountID(r.Context())

	entries, err := h.watchlistService.ListEntries(r.Context(), accountID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Watchlist{Watchlist: response.EntriesFromModel(entries)})
}

// Remove handles DELETE /api/watchlist
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.MustGetAccountID(r.Context())

	var req request.RemoveEntryRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	err := h.watchlistService.RemoveEntry(r.Context(), accountID, req.ID, model.ContentKind(req.ContentType))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.OK(w, "Removed from watchlist")
}
