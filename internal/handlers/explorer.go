package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ccoutinho/letterfy/internal/handlers/render"
	"github.com/ccoutinho/letterfy/internal/models"
)

type catalogService interface {
	Search(ctx context.Context, kind models.ItemKind, query string, limit int) ([]models.CatalogItem, error)
	NewReleases(ctx context.Context, limit int) ([]models.CatalogItem, error)
}

type ExplorerHandler struct {
	catalog catalogService
}

func NewExplorer(catalog catalogService) *ExplorerHandler {
	return &ExplorerHandler{catalog: catalog}
}

// GET /api/explorer/search?query=&type=&limit=
func (h *ExplorerHandler) search(w http.ResponseWriter, r *http.Request) {
	type SearchResponse struct {
		Items []models.CatalogItem `json:"items"`
	}

	query := r.URL.Query().Get("query")

	kind := models.ItemKind(r.URL.Query().Get("type"))
	if kind == "" {
		kind = models.ItemTrack
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			render.ServiceError(w, "Limit must be a number", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	items, err := h.catalog.Search(r.Context(), kind, query, limit)
	if err != nil {
		catalogError(w, err)
		return
	}

	render.JSON(w, SearchResponse{Items: items})
}

// GET /api/explorer/new-releases?limit=
func (h *ExplorerHandler) newReleases(w http.ResponseWriter, r *http.Request) {
	type NewReleasesResponse struct {
		Items []models.CatalogItem `json:"items"`
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			render.ServiceError(w, "Limit must be a number", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	items, err := h.catalog.NewReleases(r.Context(), limit)
	if err != nil {
		catalogError(w, err)
		return
	}

	render.JSON(w, NewReleasesResponse{Items: items})
}
