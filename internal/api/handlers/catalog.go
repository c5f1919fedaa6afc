package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/domain"
	"github.com/dom/league-builds/internal/service"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type ChampionResponse struct {
	ID       string   `json:"id"`
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
	Partype  string   `json:"partype"`
}

type ChampionsResponse struct {
	Champions []ChampionResponse `json:"champions"`
	Version   string             `json:"version"`
}

type SyncResponse struct {
	Synced  int    `json:"synced"`
	Version string `json:"version"`
}

// ItemResponse is an item record plus the display helpers the item grid uses.
type ItemResponse struct {
	build.ItemRecord
	PlainDescription string `json:"plainDescription"`
	RarityColor      string `json:"rarityColor"`
}

type ItemsResponse struct {
	Version    string           `json:"version"`
	Categories []build.Category `json:"categories"`
	Tags       []string         `json:"tags"`
	Items      []ItemResponse   `json:"items"`
}

type StatsRequest struct {
	Level int      `json:"level" validate:"min=1,max=18"`
	Ranks [4]int   `json:"ranks"`
	Items []string `json:"items" validate:"max=6,dive,required"`
}

// RejectionResponse describes why an item could not join a build.
type RejectionResponse struct {
	Reason    build.IncompatibilityReason `json:"reason"`
	Message   string                      `json:"message"`
	ItemID    string                      `json:"itemId"`
	Conflicts string                      `json:"conflicts,omitempty"`
}

func (h *CatalogHandler) Versions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.catalogService.Versions(r.Context())
	if err != nil {
		h.writeError(w, "Versions", err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *CatalogHandler) Champions(w http.ResponseWriter, r *http.Request) {
	champions, err := h.catalogService.GetAllChampions(r.Context(), r.URL.Query().Get("version"))
	if err != nil {
		log.Printf("ERROR [catalog.Champions]: %v", err)
		http.Error(w, "Failed to get champions", http.StatusInternalServerError)
		return
	}

	resp := ChampionsResponse{
		Champions: make([]ChampionResponse, len(champions)),
	}
	for i, c := range champions {
		resp.Champions[i] = toChampionResponse(c)
		if resp.Version == "" {
			resp.Version = c.Version
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func toChampionResponse(c *domain.Champion) ChampionResponse {
	var tags []string
	json.Unmarshal(c.Tags, &tags)

	return ChampionResponse{
		ID:       c.ID,
		Key:      c.Key,
		Name:     c.Name,
		Title:    c.Title,
		ImageURL: c.ImageURL,
		Tags:     tags,
		Partype:  c.Partype,
	}
}

// Champion returns the full profile, stats and abilities included.
func (h *CatalogHandler) Champion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := h.catalogService.Champion(r.Context(), id)
	if err != nil {
		h.writeError(w, "Champion", err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *CatalogHandler) Sync(w http.ResponseWriter, r *http.Request) {
	count, version, err := h.catalogService.SyncFromDataDragon(r.Context())
	if err != nil {
		log.Printf("ERROR [catalog.Sync]: %v", err)
		http.Error(w, "Failed to sync champions", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{Synced: count, Version: version})
}

func (h *CatalogHandler) Items(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	catalog, items, err := h.catalogService.Items(r.Context(), build.ItemQuery{
		Category: build.Category(q.Get("category")),
		Tag:      q.Get("tag"),
		Search:   q.Get("q"),
	})
	if err != nil {
		h.writeError(w, "Items", err)
		return
	}

	resp := ItemsResponse{
		Version:    catalog.Version(),
		Categories: catalog.Rules().CategoryNames(),
		Tags:       catalog.Tags(),
		Items:      make([]ItemResponse, len(items)),
	}
	for i, item := range items {
		resp.Items[i] = ItemResponse{
			ItemRecord:       item,
			PlainDescription: build.PlainDescription(item.Description),
			RarityColor:      item.Rarity.Color(),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Stats computes a snapshot for an ad hoc build without opening a session.
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req StatsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.catalogService.ComputeStats(r.Context(), id, service.StatsInput{
		Level: req.Level,
		Ranks: build.AbilityRanks(req.Ranks),
		Items: req.Items,
	})
	if err != nil {
		h.writeError(w, "Stats", err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Refresh drops cached content for the current version.
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.Invalidate(r.Context()); err != nil {
		h.writeError(w, "Refresh", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, op string, err error) {
	var incompatible *build.IncompatibilityError
	switch {
	case errors.As(err, &incompatible):
		writeJSON(w, http.StatusUnprocessableEntity, RejectionResponse{
			Reason:    incompatible.Reason,
			Message:   incompatible.Reason.Message(),
			ItemID:    incompatible.ItemID,
			Conflicts: incompatible.Conflicts,
		})
	case errors.Is(err, domain.ErrChampionNotFound):
		http.Error(w, "Champion not found", http.StatusNotFound)
	case errors.Is(err, build.ErrUnknownItem),
		errors.Is(err, build.ErrInvalidLevel),
		errors.Is(err, build.ErrInvalidSlot):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUpstream):
		log.Printf("ERROR [catalog.%s]: %v", op, err)
		http.Error(w, "Content service unavailable", http.StatusBadGateway)
	default:
		log.Printf("ERROR [catalog.%s]: %v", op, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
