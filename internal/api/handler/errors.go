package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/watchlist/internal/api/apierr"
)

// writeError writes err as a JSON error response. Server-side failures are
// logged; the caller only sees a generic message.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}
