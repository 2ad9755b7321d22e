package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ccoutinho/letterfy/internal/apperrors"
)

type FollowRepo struct {
	DB DBTX
}

func (r *FollowRepo) Follow(ctx context.Context, followerID uuid.UUID, followedID uuid.UUID) error {
	if followerID == followedID {
		return apperrors.ErrSelfFollow
	}

	_, err := r.DB.Exec(ctx,
		"INSERT INTO follows (follower_id, followed_id) VALUES ($1, $2)",
		followerID, followedID,
	)

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return apperrors.ErrAlreadyFollowing
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation:
		return apperrors.ErrUserNotFound
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *FollowRepo) Unfollow(ctx context.Context, followerID uuid.UUID, followedID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2",
		followerID, followedID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrFollowNotFound
	}

	return nil
}

func (r *FollowRepo) Counts(ctx context.Context, userID uuid.UUID) (followers int, following int, err error) {
	err = r.DB.QueryRow(ctx,
		`SELECT
		     (SELECT count(*) FROM follows WHERE followed_id = $1),
		     (SELECT count(*) FROM follows WHERE follower_id = $1)`,
		userID,
	).Scan(&followers, &following)
	if err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}

	return followers, following, nil
}
