package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	// Caller input problems, always recoverable by fixing the form
	// Concrete reasons below wrap ErrValidation so handlers can match the whole class
	ErrValidation       = errors.New("validation failed")
	ErrRatingOutOfRange = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrCommentEmpty     = fmt.Errorf("%w: comment must not be empty", ErrValidation)
	ErrUnknownItemKind  = fmt.Errorf("%w: unknown catalog item kind", ErrValidation)
	ErrEmptyQuery       = fmt.Errorf("%w: search query must not be empty", ErrValidation)

	// Store write failed after a successful catalog fetch, nothing partial is kept
	ErrPersistence = errors.New("persistence failed")

	ErrReviewNotFound = errors.New("review not found")

	ErrAlreadyFavorite  = errors.New("item is already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")

	ErrListNotFound  = errors.New("list not found")
	ErrListForbidden = errors.New("list is private")

	ErrAlreadyFollowing = errors.New("already following this user")
	ErrFollowNotFound   = errors.New("not following this user")
	ErrSelfFollow       = errors.New("users cannot follow themselves")
)
