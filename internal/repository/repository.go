package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ccoutinho/letterfy/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Case insensitive username search, newest users first
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)

	// Update bio and avatar, nil fields stay untouched
	UpdateProfile(ctx context.Context, userID uuid.UUID, bio *string, avatar *string) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save token in repository
	Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return the token and mark it used atomically
	// If the token is not found must return apperrors.ErrRefreshTokenNotFound
	// If the token is already used must return apperrors.ErrRefreshTokenIsUsed
	GetAndMarkUsed(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Remove tokens that expired before the given instant, returns removed count
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type CreateReviewParams struct {
	Item       models.CatalogItem
	Rating     int
	Comment    string
	AuthorID   uuid.UUID
	IsFavorite bool
}

// Review repository interface
// Repeat reviews by the same author for the same item are allowed on purpose
type ReviewRepo interface {
	// Persist the review with its item snapshot as one atomic insert
	CreateReview(ctx context.Context, params CreateReviewParams) (models.Review, error)

	// All reviews of one catalog item, newest first
	ListForItem(ctx context.Context, kind models.ItemKind, itemID string) ([]models.Review, error)

	// Rating aggregate of one catalog item
	ItemRating(ctx context.Context, kind models.ItemKind, itemID string) (models.ItemRating, error)

	// Latest reviews across all items, newest first
	ListLatest(ctx context.Context, limit int) ([]models.Review, error)

	// Reviews written by the author, newest first
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Review, error)

	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}

// Favorite repository interface
type FavoriteRepo interface {
	// Add item to user favorites
	// Must return apperrors.ErrAlreadyFavorite on repeat additions
	Add(ctx context.Context, userID uuid.UUID, item models.CatalogItem) (models.Favorite, error)

	// Remove favorite, apperrors.ErrFavoriteNotFound if it is not there
	Remove(ctx context.Context, userID uuid.UUID, kind models.ItemKind, itemID string) error

	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
}

type CreateListParams struct {
	AuthorID    uuid.UUID
	Name        string
	Description string
	IsPublic    bool
}

// List repository interface
type ListRepo interface {
	CreateList(ctx context.Context, params CreateListParams) (models.List, error)

	// Get list with its items, apperrors.ErrListNotFound if missing
	GetList(ctx context.Context, listID uuid.UUID) (models.List, error)

	// Append item snapshot to the list, ignored if already present
	AddItem(ctx context.Context, listID uuid.UUID, item models.CatalogItem) error

	// Lists of the author, private ones only when includePrivate is set
	ListByAuthor(ctx context.Context, authorID uuid.UUID, includePrivate bool) ([]models.List, error)
}

// Follow repository interface
type FollowRepo interface {
	// Follow must return apperrors.ErrAlreadyFollowing on repeats
	// and apperrors.ErrSelfFollow when both ids match
	Follow(ctx context.Context, followerID uuid.UUID, followedID uuid.UUID) error

	// Unfollow must return apperrors.ErrFollowNotFound if no edge exists
	Unfollow(ctx context.Context, followerID uuid.UUID, followedID uuid.UUID) error

	Counts(ctx context.Context, userID uuid.UUID) (followers int, following int, err error)
}

// Storage aggregates all repositories over one connection or transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Review() ReviewRepo
	Favorite() FavoriteRepo
	List() ListRepo
	Follow() FollowRepo

	// Run fn within a database transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
