package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/repository"
	"github.com/ccoutinho/letterfy/internal/service/auth"
)

const defaultSearchLimit = 20

// Catalog lookup to snapshot favorite items
type Catalog interface {
	GetItem(ctx context.Context, kind models.ItemKind, id string) (models.CatalogItem, error)
}

type UserService struct {
	hasher  auth.PasswordHasher
	catalog Catalog

	userRepo     repository.UserRepo
	reviewRepo   repository.ReviewRepo
	favoriteRepo repository.FavoriteRepo
	followRepo   repository.FollowRepo
}

func NewService(hasher auth.PasswordHasher, catalog Catalog, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:       hasher,
		catalog:      catalog,
		userRepo:     storage.User(),
		reviewRepo:   storage.Review(),
		favoriteRepo: storage.Favorite(),
		followRepo:   storage.Follow(),
	}
}

func (s *UserService) CreateUser(ctx context.Context, username string, password string) (models.User, error) {
	var user models.User
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err = s.userRepo.CreateUser(ctx, username, hash)
	if err != nil {
		return user, err
	}

	return user, nil
}

// GetProfile returns the user together with follow and review counters
func (s *UserService) GetProfile(ctx context.Context, username string) (models.Profile, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return models.Profile{}, err
	}

	followers, following, err := s.followRepo.Counts(ctx, user.ID)
	if err != nil {
		return models.Profile{}, err
	}

	reviews, err := s.reviewRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		return models.Profile{}, err
	}

	return models.Profile{
		User:      user,
		Followers: followers,
		Following: following,
		Reviews:   reviews,
	}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, bio *string, avatar *string) (models.User, error) {
	return s.userRepo.UpdateProfile(ctx, userID, bio, avatar)
}

func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	if query == "" {
		return nil, apperrors.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return s.userRepo.SearchUsers(ctx, query, limit)
}

// AddFavorite snapshots the item from the catalog and pins it for the user
func (s *UserService) AddFavorite(ctx context.Context, userID uuid.UUID, kind models.ItemKind, itemID string) (models.Favorite, error) {
	if !kind.Valid() {
		return models.Favorite{}, apperrors.ErrUnknownItemKind
	}

	item, err := s.catalog.GetItem(ctx, kind, itemID)
	if err != nil {
		return models.Favorite{}, err
	}

	return s.favoriteRepo.Add(ctx, userID, item)
}

func (s *UserService) RemoveFavorite(ctx context.Context, userID uuid.UUID, kind models.ItemKind, itemID string) error {
	return s.favoriteRepo.Remove(ctx, userID, kind, itemID)
}

func (s *UserService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}

// Follow makes follower start following the user named by username
func (s *UserService) Follow(ctx context.Context, followerID uuid.UUID, username string) error {
	followed, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.followRepo.Follow(ctx, followerID, followed.ID)
}

func (s *UserService) Unfollow(ctx context.Context, followerID uuid.UUID, username string) error {
	followed, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.followRepo.Unfollow(ctx, followerID, followed.ID)
}
