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
)

type userService interface {
	GetProfile(ctx context.Context, username string) (models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, bio *string, avatar *string) (models.User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)

	AddFavorite(ctx context.Context, userID uuid.UUID, kind models.ItemKind, itemID string) (models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID uuid.UUID, kind models.ItemKind, itemID string) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)

	Follow(ctx context.Context, followerID uuid.UUID, username string) error
	Unfollow(ctx context.Context, followerID uuid.UUID, username string) error
}

type UserHandler struct {
	users   userService
	reviews reviewService
}

type UserResponse struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

type FavoriteResponse struct {
	Item    models.CatalogItem `json:"item"`
	AddedAt time.Time          `json:"added_at"`
}

func NewUser(users userService, reviews reviewService) *UserHandler {
	return &UserHandler{users: users, reviews: reviews}
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		Username: u.Username,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
	}
}

// GET /api/users/{username}
func (h *UserHandler) profile(w http.ResponseWriter, r *http.Request) {
	type ProfileResponse struct {
		UserResponse
		Followers int `json:"followers"`
		Following int `json:"following"`
		Reviews   int `json:"reviews"`
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

	render.JSON(w, ProfileResponse{
		UserResponse: toUserResponse(profile.User),
		Followers:    profile.Followers,
		Following:    profile.Following,
		Reviews:      profile.Reviews,
	})
}

// PATCH /api/user/profile
func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	type UpdateRequest struct {
		Bio    *string `json:"bio" validate:"omitempty,max=500"`
		Avatar *string `json:"avatar" validate:"omitempty,max=500"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := render.BindAndValidate[UpdateRequest](w, r)
	if err != nil {
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, data.Bio, data.Avatar)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, toUserResponse(updated))
}

// GET /api/home?q=&limit=
// Home feed: latest reviews plus user search when q is present
func (h *UserHandler) home(w http.ResponseWriter, r *http.Request) {
	type HomeResponse struct {
		Reviews []ReviewResponse `json:"reviews"`
		Users   []UserResponse   `json:"users,omitempty"`
	}

	const latestReviewsOnHome = 5

	reviews, err := h.reviews.ListLatest(r.Context(), latestReviewsOnHome)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := HomeResponse{Reviews: toReviewResponses(reviews)}

	if query := r.URL.Query().Get("q"); query != "" {
		users, err := h.users.SearchUsers(r.Context(), query, 0)
		if err != nil {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response.Users = make([]UserResponse, 0, len(users))
		for _, u := range users {
			response.Users = append(response.Users, toUserResponse(u))
		}
	}

	render.JSON(w, response)
}

// POST /api/user/favorites
func (h *UserHandler) addFavorite(w http.ResponseWriter, r *http.Request) {
	type AddFavoriteRequest struct {
		Kind string `json:"kind" validate:"required,oneof=track album artist"`
		ID   string `json:"id" validate:"required"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := render.BindAndValidate[AddFavoriteRequest](w, r)
	if err != nil {
		return
	}

	favorite, err := h.users.AddFavorite(r.Context(), user.ID, models.ItemKind(data.Kind), data.ID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyFavorite):
			render.ServiceError(w, "Item is already in favorites", http.StatusConflict)
		default:
			catalogError(w, err)
		}
		return
	}

	render.JSONWithStatus(w, FavoriteResponse{Item: favorite.Item, AddedAt: favorite.AddedAt}, http.StatusCreated)
}

// DELETE /api/user/favorites/{kind}/{id}
func (h *UserHandler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	err := h.users.RemoveFavorite(r.Context(), user.ID, models.ItemKind(r.PathValue("kind")), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrFavoriteNotFound):
			render.ServiceError(w, "Favorite not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/users/{username}/favorites
func (h *UserHandler) listFavorites(w http.ResponseWriter, r *http.Request) {
	type FavoritesResponse struct {
		Favorites []FavoriteResponse `json:"favorites"`
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

	favorites, err := h.users.ListFavorites(r.Context(), profile.User.ID)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := FavoritesResponse{Favorites: make([]FavoriteResponse, 0, len(favorites))}
	for _, f := range favorites {
		response.Favorites = append(response.Favorites, FavoriteResponse{Item: f.Item, AddedAt: f.AddedAt})
	}

	render.JSON(w, response)
}

// GET /api/users/{username}/reviews
func (h *UserHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	type ReviewsResponse struct {
		Reviews []ReviewResponse `json:"reviews"`
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

	reviews, err := h.reviews.ListByAuthor(r.Context(), profile.User.ID)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, ReviewsResponse{Reviews: toReviewResponses(reviews)})
}

// POST /api/users/{username}/follow
func (h *UserHandler) follow(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	err := h.users.Follow(r.Context(), user.ID, r.PathValue("username"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAlreadyFollowing):
			render.ServiceError(w, "Already following this user", http.StatusConflict)
		case errors.Is(err, apperrors.ErrSelfFollow):
			render.ServiceError(w, "Users cannot follow themselves", http.StatusBadRequest)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/users/{username}/follow
func (h *UserHandler) unfollow(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	err := h.users.Unfollow(r.Context(), user.ID, r.PathValue("username"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrFollowNotFound):
			render.ServiceError(w, "Not following this user", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
