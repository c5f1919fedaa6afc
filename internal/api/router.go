package api

import (
	"net/http"

	"github.com/dom/league-builds/internal/api/handlers"
	"github.com/dom/league-builds/internal/api/middleware"
	"github.com/dom/league-builds/internal/config"
	"github.com/dom/league-builds/internal/metrics"
	"github.com/dom/league-builds/internal/service"
	"github.com/dom/league-builds/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, m *metrics.Metrics, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(m.Middleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", m.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	favoriteHandler := handlers.NewFavoriteHandler(services.Favorite)
	buildHandler := handlers.NewBuildHandler(services.Build)
	catalogHandler := handlers.NewCatalogHandler(services.Catalog)
	wsHandler := handlers.NewWebSocketHandler(hub, services, m)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Cache maintenance is open in development and needs a login in production.
		maintenance := func(h http.HandlerFunc) http.Handler {
			if cfg.IsProduction() {
				return middleware.Auth(services.Auth)(h)
			}
			return h
		}

		// Content catalog (public)
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/versions", catalogHandler.Versions)
			r.Get("/items", catalogHandler.Items)
			r.Method(http.MethodPost, "/refresh", maintenance(catalogHandler.Refresh))
			r.Route("/champions", func(r chi.Router) {
				r.Get("/", catalogHandler.Champions)
				r.Method(http.MethodPost, "/sync", maintenance(catalogHandler.Sync))
				r.Get("/{id}", catalogHandler.Champion)
				r.Post("/{id}/stats", catalogHandler.Stats)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", favoriteHandler.List)
				r.Post("/", favoriteHandler.Add)
				r.Delete("/{championId}", favoriteHandler.Remove)
			})

			r.Route("/builds", func(r chi.Router) {
				r.Get("/", buildHandler.List)
				r.Post("/", buildHandler.Create)
				r.Get("/{id}", buildHandler.Get)
				r.Put("/{id}", buildHandler.Update)
				r.Delete("/{id}", buildHandler.Delete)
			})
		})

		// Live build sessions authenticate through the token query parameter.
		r.Get("/ws/builds", wsHandler.Builds)
	})

	return r
}
