package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/handlers/render"
	"github.com/ccoutinho/letterfy/internal/handlers/userctx"
	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/service/list"
)

type listService interface {
	CreateList(ctx context.Context, author models.User, params list.CreateParams) (models.List, error)
	GetList(ctx context.Context, viewerID uuid.UUID, listID uuid.UUID) (models.List, error)
	AddItem(ctx context.Context, actorID uuid.UUID, listID uuid.UUID, kind models.ItemKind, itemID string) (models.List, error)
	ListByAuthor(ctx context.Context, viewerID uuid.UUID, authorID uuid.UUID) ([]models.List, error)
}

type listProfileService interface {
	GetProfile(ctx context.Context, username string) (models.Profile, error)
}

type ListHandler struct {
	lists listService
	users listProfileService
}

type ListResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	IsPublic    bool                 `json:"is_public"`
	Items       []models.CatalogItem `json:"items"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func NewList(lists listService, users listProfileService) *ListHandler {
	return &ListHandler{lists: lists, users: users}
}

func toListResponse(l models.List) ListResponse {
	items := l.Items
	if items == nil {
		items = []models.CatalogItem{}
	}

	return ListResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		IsPublic:    l.IsPublic,
		Items:       items,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// viewerID is uuid.Nil for anonymous requests
func viewerID(ctx context.Context) uuid.UUID {
	if user, ok := userctx.FromContext(ctx); ok {
		return user.ID
	}
	return uuid.Nil
}

// POST /api/lists
func (h *ListHandler) create(w http.ResponseWriter, r *http.Request) {
	type CreateRequest struct {
		Name        string `json:"name" validate:"required,min=1,max=100"`
		Description string `json:"description" validate:"max=500"`
		IsPublic    bool   `json:"is_public"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := render.BindAndValidate[CreateRequest](w, r)
	if err != nil {
		return
	}

	created, err := h.lists.CreateList(r.Context(), user, list.CreateParams{
		Name:        data.Name,
		Description: data.Description,
		IsPublic:    data.IsPublic,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, toListResponse(created), http.StatusCreated)
}

// GET /api/lists/{id}
func (h *ListHandler) get(w http.ResponseWriter, r *http.Request) {
	listID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "List not found", http.StatusNotFound)
		return
	}

	found, err := h.lists.GetList(r.Context(), viewerID(r.Context()), listID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrListNotFound):
			render.ServiceError(w, "List not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrListForbidden):
			render.ServiceError(w, "List is private", http.StatusForbidden)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, toListResponse(found))
}

// POST /api/lists/{id}/items
func (h *ListHandler) addItem(w http.ResponseWriter, r *http.Request) {
	type AddItemRequest struct {
		Kind string `json:"kind" validate:"required,oneof=track album artist"`
		ID   string `json:"id" validate:"required"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	listID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "List not found", http.StatusNotFound)
		return
	}

	data, err := render.BindAndValidate[AddItemRequest](w, r)
	if err != nil {
		return
	}

	updated, err := h.lists.AddItem(r.Context(), user.ID, listID, models.ItemKind(data.Kind), data.ID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrListNotFound):
			render.ServiceError(w, "List not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrListForbidden):
			render.ServiceError(w, "Only the author may change the list", http.StatusForbidden)
		default:
			catalogError(w, err)
		}
		return
	}

	render.JSON(w, toListResponse(updated))
}

// GET /api/users/{username}/lists
func (h *ListHandler) listsByUser(w http.ResponseWriter, r *http.Request) {
	type ListsResponse struct {
		Lists []ListResponse `json:"lists"`
	}

	profile, err := h.users.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	lists, err := h.lists.ListByAuthor(r.Context(), viewerID(r.Context()), profile.User.ID)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := ListsResponse{Lists: make([]ListResponse, 0, len(lists))}
	for _, l := range lists {
		response.Lists = append(response.Lists, toListResponse(l))
	}

	render.JSON(w, response)
}
