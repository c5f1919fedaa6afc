package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/domain"
	"github.com/dom/league-builds/internal/metrics"
	"github.com/dom/league-builds/internal/service"
	"github.com/dom/league-builds/internal/websocket"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
	catalog     *service.CatalogService
	persister   *service.SessionPersister
	metrics     *metrics.Metrics
}

func NewWebSocketHandler(hub *websocket.Hub, services *service.Services, m *metrics.Metrics) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: services.Auth,
		catalog:     services.Catalog,
		persister:   services.Persister,
		metrics:     m,
	}
}

// Builds opens a live build session for one champion. The token is only
// needed to save or to edit an existing build.
func (h *WebSocketHandler) Builds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	championID := q.Get("champion")
	if championID == "" {
		http.Error(w, "Champion required", http.StatusBadRequest)
		return
	}

	token := q.Get("token")
	if token != "" {
		if _, err := h.authService.UserIDFromToken(token); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
	}

	var seed *build.SavedBuild
	if buildID := q.Get("build"); buildID != "" {
		if token == "" {
			http.Error(w, "Token required to edit a build", http.StatusUnauthorized)
			return
		}
		saved, err := h.persister.SeedFor(r.Context(), token, buildID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrBuildNotFound):
				http.Error(w, "Build not found", http.StatusNotFound)
			case errors.Is(err, domain.ErrNotBuildOwner):
				http.Error(w, "Not authorized to edit this build", http.StatusForbidden)
			default:
				log.Printf("ERROR [handlers.WebSocket] seed build=%s: %v", buildID, err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}
		if saved.Champion != championID {
			http.Error(w, "Build belongs to a different champion", http.StatusBadRequest)
			return
		}
		seed = saved
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	session := build.NewSession(build.SessionConfig{
		ChampionID: championID,
		Loader:     h.catalog,
		Persister:  h.persister,
		Token:      func() string { return token },
		Seed:       seed,
	})

	client := websocket.NewClient(h.hub, conn, session, h.metrics)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
	go client.Load()
}
