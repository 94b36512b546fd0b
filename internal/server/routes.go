package server

import (
	"log/slog"
	"net/http"

	"repo-universe/internal/auth"
	"repo-universe/internal/middleware"
	serverHandlers "repo-universe/internal/server/handlers"
	"repo-universe/internal/shared/config"
)

// Dependencies are the live components the HTTP surface reads from
type Dependencies struct {
	Caller    serverHandlers.Caller
	Planets   serverHandlers.PlanetLister
	Ships     serverHandlers.ShipLister
	Stats     serverHandlers.StatsSource
	Navigator serverHandlers.Navigator
	Events    serverHandlers.EventSource
	Feed      serverHandlers.FeedStatus
	Redis     serverHandlers.RedisStatus
	States    *auth.StateManager
}

type Routes struct {
	config *config.Config
	deps   Dependencies
	logger *slog.Logger
}

func NewRoutes(cfg *config.Config, deps Dependencies, logger *slog.Logger) *Routes {
	return &Routes{
		config: cfg,
		deps:   deps,
		logger: logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.deps.Feed, r.deps.Redis)
	universeHandler := serverHandlers.NewUniverseHandler(r.deps.Caller, r.deps.Planets, r.deps.Ships)
	hudHandler := serverHandlers.NewHUDHandler(r.deps.Caller, r.deps.Stats)
	navigationHandler := serverHandlers.NewNavigationHandler(r.deps.Caller, r.deps.Navigator)
	eventsHandler := serverHandlers.NewEventsHandler(r.deps.Events, r.config.Frontend.URL, r.config.Redis.BufferSize)

	protect := func(h http.Handler) http.Handler { return h }
	if r.config.Auth.Enabled {
		protect = middleware.JWTMiddleware(r.config.Auth.JWTSecret)
	}

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)

	authEndpoints := []string{}
	if r.config.GitHubLoginConfigured() {
		states := r.deps.States
		if states == nil {
			states = auth.NewStateManager()
		}
		loginHandler := auth.NewLoginHandler(auth.NewGitHubProvider(r.config.Auth), states, r.config)

		mux.HandleFunc("GET /auth/github", loginHandler.HandleAuth)
		mux.HandleFunc("GET /auth/github/callback", loginHandler.HandleCallback)
		mux.HandleFunc("POST /auth/logout", loginHandler.HandleLogout)
		authEndpoints = append(authEndpoints, "/auth/github", "/auth/github/callback", "/auth/logout")
	}

	// Viewer endpoints, protected when auth is enabled
	mux.Handle("/api/universe", protect(universeHandler))
	mux.Handle("/api/hud", protect(hudHandler))
	mux.Handle("/api/navigation/{direction}", protect(navigationHandler))
	mux.Handle("/api/events", protect(eventsHandler))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health"},
		"viewer_endpoints", []string{"/api/universe", "/api/hud", "/api/navigation/{direction}", "/api/events"},
		"auth_endpoints", authEndpoints,
		"auth_enabled", r.config.Auth.Enabled,
	)

	return mux
}
