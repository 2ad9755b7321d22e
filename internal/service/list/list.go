package list

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/repository"
)

// Catalog lookup to snapshot items added to lists
type Catalog interface {
	GetItem(ctx context.Context, kind models.ItemKind, id string) (models.CatalogItem, error)
}

type CreateParams struct {
	Name        string
	Description string
	IsPublic    bool
}

type ListService struct {
	catalog  Catalog
	listRepo repository.ListRepo
}

func NewService(catalog Catalog, listRepo repository.ListRepo) *ListService {
	return &ListService{
		catalog:  catalog,
		listRepo: listRepo,
	}
}

func (s *ListService) CreateList(ctx context.Context, author models.User, params CreateParams) (models.List, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return models.List{}, apperrors.ErrValidation
	}

	return s.listRepo.CreateList(ctx, repository.CreateListParams{
		AuthorID:    author.ID,
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		IsPublic:    params.IsPublic,
	})
}

// GetList returns the list with items
// Private lists are visible to their author only, everyone else gets
// apperrors.ErrListForbidden. Pass uuid.Nil as viewerID for anonymous access.
func (s *ListService) GetList(ctx context.Context, viewerID uuid.UUID, listID uuid.UUID) (models.List, error) {
	list, err := s.listRepo.GetList(ctx, listID)
	if err != nil {
		return models.List{}, err
	}

	if !list.IsPublic && list.AuthorID != viewerID {
		return models.List{}, apperrors.ErrListForbidden
	}

	return list, nil
}

// AddItem snapshots the item from the catalog and appends it to the list
// Only the author may add items
func (s *ListService) AddItem(ctx context.Context, actorID uuid.UUID, listID uuid.UUID, kind models.ItemKind, itemID string) (models.List, error) {
	if !kind.Valid() {
		return models.List{}, apperrors.ErrUnknownItemKind
	}

	list, err := s.listRepo.GetList(ctx, listID)
	if err != nil {
		return models.List{}, err
	}
	if list.AuthorID != actorID {
		return models.List{}, apperrors.ErrListForbidden
	}

	item, err := s.catalog.GetItem(ctx, kind, itemID)
	if err != nil {
		return models.List{}, err
	}

	if err := s.listRepo.AddItem(ctx, listID, item); err != nil {
		return models.List{}, err
	}

	return s.listRepo.GetList(ctx, listID)
}

// ListByAuthor returns the author's lists, private ones only for the author
func (s *ListService) ListByAuthor(ctx context.Context, viewerID uuid.UUID, authorID uuid.UUID) ([]models.List, error) {
	return s.listRepo.ListByAuthor(ctx, authorID, viewerID == authorID)
}
