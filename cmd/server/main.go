package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/league-builds/internal/api"
	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/cache"
	"github.com/dom/league-builds/internal/config"
	"github.com/dom/league-builds/internal/ddragon"
	"github.com/dom/league-builds/internal/metrics"
	"github.com/dom/league-builds/internal/repository/postgres"
	"github.com/dom/league-builds/internal/service"
	"github.com/dom/league-builds/internal/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Classification rules
	rules := build.DefaultRules()
	if cfg.RulesFile != "" {
		rules, err = build.LoadRulesFile(cfg.RulesFile)
		if err != nil {
			log.Fatalf("failed to load rules: %v", err)
		}
		log.Printf("Loaded classification rules from %s", cfg.RulesFile)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Catalog cache
	var catalogCache cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rc.Close()
		catalogCache = rc
	}
	log.Printf("Catalog cache backend: %s", catalogCache.Backend())

	dd := ddragon.NewClient(ddragon.Options{
		BaseURL:  cfg.DataDragonBaseURL,
		Locale:   cfg.DataDragonLocale,
		Cache:    catalogCache,
		CacheTTL: cfg.CatalogCacheTTL,
		Metrics:  m,
	})

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub(m)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, dd, rules, m, cfg)

	// Initialize router
	router := api.NewRouter(services, hub, m, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Hijacked websocket connections are not closed by Shutdown.
	hub.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
