package review

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/repository"
)

const (
	MinRating = 1
	MaxRating = 5

	defaultLatestLimit = 20
)

// Catalog lookup the service needs to snapshot reviewed items
type Catalog interface {
	GetItem(ctx context.Context, kind models.ItemKind, id string) (models.CatalogItem, error)
}

type SubmitParams struct {
	ItemKind   models.ItemKind
	ItemID     string
	Rating     int
	Comment    string
	IsFavorite bool
}

type ReviewService struct {
	catalog    Catalog
	reviewRepo repository.ReviewRepo
}

func NewService(catalog Catalog, reviewRepo repository.ReviewRepo) *ReviewService {
	return &ReviewService{
		catalog:    catalog,
		reviewRepo: reviewRepo,
	}
}

// SubmitReview validates input, snapshots the item from the catalog and stores
// the review. Validation runs before any catalog call, so bad input never
// spends an upstream request. The same author may review the same item many
// times, every submission lands as a new review.
func (s *ReviewService) SubmitReview(ctx context.Context, author models.User, params SubmitParams) (models.Review, error) {
	if err := validateSubmit(params); err != nil {
		return models.Review{}, err
	}

	item, err := s.catalog.GetItem(ctx, params.ItemKind, params.ItemID)
	if err != nil {
		return models.Review{}, err
	}

	review, err := s.reviewRepo.CreateReview(ctx, repository.CreateReviewParams{
		Item:       item,
		Rating:     params.Rating,
		Comment:    strings.TrimSpace(params.Comment),
		AuthorID:   author.ID,
		IsFavorite: params.IsFavorite,
	})
	if err != nil {
		return models.Review{}, errors.Join(apperrors.ErrPersistence, err)
	}

	return review, nil
}

func validateSubmit(params SubmitParams) error {
	if !params.ItemKind.Reviewable() {
		return apperrors.ErrUnknownItemKind
	}
	if params.ItemID == "" {
		return apperrors.ErrValidation
	}
	if params.Rating < MinRating || params.Rating > MaxRating {
		return apperrors.ErrRatingOutOfRange
	}
	if strings.TrimSpace(params.Comment) == "" {
		return apperrors.ErrCommentEmpty
	}
	return nil
}

// ListForItem returns the reviews of one item together with its rating aggregate
func (s *ReviewService) ListForItem(ctx context.Context, kind models.ItemKind, itemID string) ([]models.Review, models.ItemRating, error) {
	if !kind.Reviewable() {
		return nil, models.ItemRating{}, apperrors.ErrUnknownItemKind
	}

	reviews, err := s.reviewRepo.ListForItem(ctx, kind, itemID)
	if err != nil {
		return nil, models.ItemRating{}, err
	}

	rating, err := s.reviewRepo.ItemRating(ctx, kind, itemID)
	if err != nil {
		return nil, models.ItemRating{}, err
	}

	return reviews, rating, nil
}

func (s *ReviewService) ListLatest(ctx context.Context, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}

	return s.reviewRepo.ListLatest(ctx, limit)
}

func (s *ReviewService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Review, error) {
	return s.reviewRepo.ListByAuthor(ctx, authorID)
}
