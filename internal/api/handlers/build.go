package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dom/league-builds/internal/api/middleware"
	"github.com/dom/league-builds/internal/domain"
	"github.com/dom/league-builds/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type BuildHandler struct {
	buildService *service.BuildService
}

func NewBuildHandler(buildService *service.BuildService) *BuildHandler {
	return &BuildHandler{buildService: buildService}
}

type CreateBuildRequest struct {
	Champion string `json:"champion" validate:"required,alphanum,max=64"`
	Items    string `json:"items" validate:"required,item_list"`
	Runes    string `json:"runes" validate:"max=4096"`
}

// UpdateBuildRequest leaves absent fields untouched.
type UpdateBuildRequest struct {
	Items *string `json:"items" validate:"omitnil,item_list"`
	Runes *string `json:"runes" validate:"omitnil,max=4096"`
}

func (h *BuildHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateBuildRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.buildService.Create(r.Context(), userID, service.CreateBuildInput{
		Champion: req.Champion,
		Items:    req.Items,
		Runes:    req.Runes,
	})
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

func (h *BuildHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	builds, err := h.buildService.List(r.Context(), userID, r.URL.Query().Get("champion"))
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	writeJSON(w, http.StatusOK, builds)
}

func (h *BuildHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, buildID, ok := h.ids(w, r)
	if !ok {
		return
	}

	b, err := h.buildService.Get(r.Context(), userID, buildID)
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *BuildHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, buildID, ok := h.ids(w, r)
	if !ok {
		return
	}

	var req UpdateBuildRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.buildService.Update(r.Context(), userID, buildID, service.UpdateBuildInput{
		Items: req.Items,
		Runes: req.Runes,
	})
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *BuildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, buildID, ok := h.ids(w, r)
	if !ok {
		return
	}

	if err := h.buildService.Delete(r.Context(), userID, buildID); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *BuildHandler) ids(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	buildID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Build not found", http.StatusNotFound)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, buildID, true
}

func (h *BuildHandler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrBuildNotFound):
		http.Error(w, "Build not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNotBuildOwner):
		http.Error(w, "Not authorized to modify this build", http.StatusForbidden)
	case errors.Is(err, domain.ErrInvalidBuildData):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("ERROR [handlers.BuildHandler.%s] %v", op, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
