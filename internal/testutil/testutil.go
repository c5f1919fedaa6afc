package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dom/league-builds/internal/api"
	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/cache"
	"github.com/dom/league-builds/internal/config"
	"github.com/dom/league-builds/internal/ddragon"
	"github.com/dom/league-builds/internal/metrics"
	"github.com/dom/league-builds/internal/repository"
	repoPostgres "github.com/dom/league-builds/internal/repository/postgres"
	"github.com/dom/league-builds/internal/service"
	"github.com/dom/league-builds/internal/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_league_builds"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"builds",
		"favorites",
		"user_sessions",
		"users",
		"champions",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours: 1,
		DataDragonVersion:  FixtureVersion,
		DataDragonLocale:   "en_US",
		CatalogCacheTTL:    time.Hour,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	CDN      *FakeCDN
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies. Data
// Dragon is replaced by a local fake serving the fixture documents.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()
	cdn := NewFakeCDN(t)
	cfg.DataDragonBaseURL = cdn.URL()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	dd := ddragon.NewClient(ddragon.Options{
		BaseURL:  cfg.DataDragonBaseURL,
		Locale:   cfg.DataDragonLocale,
		Cache:    cache.NewMemory(),
		CacheTTL: cfg.CatalogCacheTTL,
		Metrics:  m,
	})

	repos := repoPostgres.NewRepositories(testDB.DB)
	hub := websocket.NewHub(m)
	go hub.Run()

	services := service.NewServices(repos, dd, build.DefaultRules(), m, cfg)
	router := api.NewRouter(services, hub, m, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		CDN:      cdn,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Metrics:  m,
		Registry: reg,
		Config:   cfg,
	}

	t.Cleanup(func() {
		hub.Stop()
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// BuildSessionURL returns the build session socket URL. Empty token and
// buildID are omitted.
func (ts *TestServer) BuildSessionURL(champion, token, buildID string) string {
	wsURL := "ws" + strings.TrimPrefix(ts.Server.URL, "http")
	u := fmt.Sprintf("%s/api/v1/ws/builds?champion=%s", wsURL, champion)
	if token != "" {
		u += "&token=" + token
	}
	if buildID != "" {
		u += "&build=" + buildID
	}
	return u
}
