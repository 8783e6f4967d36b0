package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mcoot/watchlist/internal/api/apierr"
	"github.com/mcoot/watchlist/internal/api/handler"
	"github.com/mcoot/watchlist/internal/api/middleware"
	"github.com/mcoot/watchlist/internal/api/response"
	"github.com/mcoot/watchlist/internal/services/auth"
	"github.com/mcoot/watchlist/internal/services/watchlist"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	WatchlistService *watchlist.Service
	// AllowedOrigins lists browser origins allowed by CORS; empty disables CORS headers
	AllowedOrigins []string
	// RateLimit throttles signup and login per client address
	RateLimit middleware.RateLimitConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService, cfg.WatchlistService, cfg.Logger)
	watchlistHandler := handler.NewWatchlistHandler(cfg.WatchlistService, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	// Common middleware for every route
	base := r.NewRoute().Subrouter()
	base.Use(middleware.Recovery(cfg.Logger))
	base.Use(middleware.Logging(cfg.Logger))

	// Credential routes (no auth, throttled)
	public := base.NewRoute().Subrouter()
	public.Use(rateLimiter.Middleware)
	public.HandleFunc("/signup", accountHandler.Signup).Methods(http.MethodPost)
	public.HandleFunc("/api/signup", accountHandler.Signup).Methods(http.MethodPost)
	public.HandleFunc("/api/login", accountHandler.Login).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	base.HandleFunc("/api/health", healthHandler).Methods(http.MethodGet)

	// Protected routes
	protected := base.PathPrefix("/api").Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/profile", accountHandler.Profile).Methods(http.MethodGet)
	protected.HandleFunc("/update-avatar", accountHandler.UpdateAvatar).Methods(http.MethodPatch)
	protected.HandleFunc("/watchlist", watchlistHandler.Add).Methods(http.MethodPost)
	protected.HandleFunc("/watchlist", watchlistHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/watchlist", watchlistHandler.Remove).Methods(http.MethodDelete)

	if len(cfg.AllowedOrigins) == 0 {
		return r
	}

	// CORS wraps the whole router so preflight requests never reach route matching
	return handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions, http.MethodPatch,
		}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusNotFound, apierr.ErrorResponse{
		Error: apierr.APIError{Code: "NOT_FOUND", Message: "No such route"},
	})
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusMethodNotAllowed, apierr.ErrorResponse{
		Error: apierr.APIError{Code: "METHOD_NOT_ALLOWED", Message: "Method not allowed"},
	})
}
