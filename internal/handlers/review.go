package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/handlers/render"
	"github.com/ccoutinho/letterfy/internal/handlers/userctx"
	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/service/review"
)

type reviewService interface {
	SubmitReview(ctx context.Context, author models.User, params review.SubmitParams) (models.Review, error)
	ListForItem(ctx context.Context, kind models.ItemKind, itemID string) ([]models.Review, models.ItemRating, error)
	ListLatest(ctx context.Context, limit int) ([]models.Review, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Review, error)
}

type ReviewHandler struct {
	reviews reviewService
}

type ReviewResponse struct {
	ID         uuid.UUID          `json:"id"`
	Item       models.CatalogItem `json:"item"`
	Rating     int                `json:"rating"`
	Comment    string             `json:"comment"`
	Author     string             `json:"author"`
	IsFavorite bool               `json:"is_favorite"`
	CreatedAt  time.Time          `json:"created_at"`
}

type RatingResponse struct {
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

func NewReview(reviews reviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func toReviewResponse(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		Item:       r.Item,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Author:     r.Author,
		IsFavorite: r.IsFavorite,
		CreatedAt:  r.CreatedAt,
	}
}

func toReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	return out
}

// GET /api/reviews?limit=
func (h *ReviewHandler) latest(w http.ResponseWriter, r *http.Request) {
	type LatestResponse struct {
		Reviews []ReviewResponse `json:"reviews"`
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

	reviews, err := h.reviews.ListLatest(r.Context(), limit)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, LatestResponse{Reviews: toReviewResponses(reviews)})
}

// GET /api/reviews/{kind}/{id}
func (h *ReviewHandler) forItem(w http.ResponseWriter, r *http.Request) {
	type ItemReviewsResponse struct {
		Reviews []ReviewResponse `json:"reviews"`
		Rating  RatingResponse   `json:"rating"`
	}

	kind := models.ItemKind(r.PathValue("kind"))
	itemID := r.PathValue("id")

	reviews, rating, err := h.reviews.ListForItem(r.Context(), kind, itemID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, ItemReviewsResponse{
		Reviews: toReviewResponses(reviews),
		Rating:  RatingResponse{Average: rating.Average, Count: rating.Count},
	})
}

// POST /api/reviews/{kind}/{id}
func (h *ReviewHandler) submit(w http.ResponseWriter, r *http.Request) {
	type SubmitRequest struct {
		Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
		Comment    string `json:"comment" validate:"required"`
		IsFavorite bool   `json:"is_favorite"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := render.BindAndValidate[SubmitRequest](w, r)
	if err != nil {
		return
	}

	created, err := h.reviews.SubmitReview(r.Context(), user, review.SubmitParams{
		ItemKind:   models.ItemKind(r.PathValue("kind")),
		ItemID:     r.PathValue("id"),
		Rating:     data.Rating,
		Comment:    data.Comment,
		IsFavorite: data.IsFavorite,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPersistence):
			render.ServiceError(w, "Failed to store review", http.StatusInternalServerError)
		default:
			catalogError(w, err)
		}
		return
	}

	render.JSONWithStatus(w, toReviewResponse(created), http.StatusCreated)
}
