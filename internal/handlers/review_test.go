package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/handlers/userctx"
	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/service/review"
	"github.com/ccoutinho/letterfy/internal/spotify"
)

type fakeReviewService struct {
	submitErr error
	review    models.Review
}

func (f *fakeReviewService) SubmitReview(_ context.Context, _ models.User, _ review.SubmitParams) (models.Review, error) {
	return f.review, f.submitErr
}

func (f *fakeReviewService) ListForItem(context.Context, models.ItemKind, string) ([]models.Review, models.ItemRating, error) {
	return nil, models.ItemRating{}, nil
}

func (f *fakeReviewService) ListLatest(context.Context, int) ([]models.Review, error) {
	return nil, nil
}

func (f *fakeReviewService) ListByAuthor(context.Context, uuid.UUID) ([]models.Review, error) {
	return nil, nil
}

func Test_ReviewHandler_SubmitErrors(t *testing.T) {
	t.Parallel()

	submit := func(t *testing.T, svc *fakeReviewService) *http.Response {
		h := NewReview(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews/album/alb1", strings.NewReader(`{"rating": 4, "comment": "Fine"}`))
		req.SetPathValue("kind", "album")
		req.SetPathValue("id", "alb1")
		req = req.WithContext(userctx.New(req.Context(), models.User{ID: uuid.New(), Username: "cc"}))

		rec := httptest.NewRecorder()
		h.submit(rec, req)
		return rec.Result()
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "persistence failure",
			err:        errors.Join(apperrors.ErrPersistence, errors.New("insert failed")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to store review",
		},
		{
			name:       "item missing in catalog",
			err:        &spotify.RequestError{Status: http.StatusNotFound},
			wantStatus: http.StatusNotFound,
			wantBody:   "Item not found in catalog",
		},
		{
			name:       "catalog 5xx",
			err:        &spotify.RequestError{Status: http.StatusInternalServerError},
			wantStatus: http.StatusBadGateway,
			wantBody:   "Music catalog request failed",
		},
		{
			name:       "catalog rejects credentials twice",
			err:        &spotify.AuthError{Endpoint: "/albums/alb1"},
			wantStatus: http.StatusBadGateway,
			wantBody:   "Music catalog rejected our credentials",
		},
		{
			name:       "catalog unreachable",
			err:        &spotify.UnavailableError{Err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "Music catalog temporarily unavailable",
		},
		{
			name:       "credential acquisition failed",
			err:        &spotify.AcquisitionError{Status: http.StatusBadGateway},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "Music catalog temporarily unavailable",
		},
		{
			name:       "validation error from service",
			err:        apperrors.ErrRatingOutOfRange,
			wantStatus: http.StatusBadRequest,
			wantBody:   "rating must be between 1 and 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := submit(t, &fakeReviewService{submitErr: tt.err})
			defer resp.Body.Close() // nolint:errcheck
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			require.Contains(t, string(body), tt.wantBody)
		})
	}

	t.Run("submit without user in context fails", func(t *testing.T) {
		h := NewReview(&fakeReviewService{})

		req := httptest.NewRequest(http.MethodPost, "/api/reviews/album/alb1", strings.NewReader(`{"rating": 4, "comment": "Fine"}`))
		rec := httptest.NewRecorder()
		h.submit(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
