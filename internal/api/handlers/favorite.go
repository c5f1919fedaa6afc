package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dom/league-builds/internal/api/middleware"
	"github.com/dom/league-builds/internal/domain"
	"github.com/dom/league-builds/internal/service"
	"github.com/go-chi/chi/v5"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

type AddFavoriteRequest struct {
	ChampionID string `json:"championId" validate:"required,alphanum,max=64"`
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AddFavoriteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	fav, err := h.favoriteService.Add(r.Context(), userID, req.ChampionID)
	if err != nil {
		if errors.Is(err, domain.ErrFavoriteExists) {
			http.Error(w, "Champion already in favorites", http.StatusConflict)
			return
		}
		log.Printf("ERROR [handlers.FavoriteHandler.Add] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, fav)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	championID := chi.URLParam(r, "championId")
	if err := h.favoriteService.Remove(r.Context(), userID, championID); err != nil {
		if errors.Is(err, domain.ErrFavoriteNotFound) {
			http.Error(w, "Favorite not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [handlers.FavoriteHandler.Remove] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// List returns the caller's favorite champion ids as a bare array.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ids, err := h.favoriteService.List(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [handlers.FavoriteHandler.List] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, ids)
}
