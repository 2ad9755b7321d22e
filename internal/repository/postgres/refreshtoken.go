package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/models"
)

const refreshColumns = "id, user_id, token, created_at, expires_at, used_at"

type RefreshTokenRepo struct {
	DB DBTX
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt, &t.UsedAt)
	return t, err
}

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	rows, err := r.DB.Query(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3) RETURNING "+refreshColumns,
		token.UserID, token.Token, token.ExpiresAt,
	)
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("db error: %w", err)
	}

	saved, err := pgx.CollectOneRow(rows, rowToRefreshToken)
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

// GetAndMarkUsed flips used_at in the same statement that reads the token, so
// two concurrent refreshes with the same token cannot both succeed
func (r *RefreshTokenRepo) GetAndMarkUsed(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	rows, err := r.DB.Query(ctx,
		`UPDATE refresh_tokens
		 SET used_at = now()
		 WHERE token = $1 AND used_at IS NULL
		 RETURNING `+refreshColumns,
		tokenString,
	)
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("db error: %w", err)
	}

	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return models.RefreshToken{}, r.missReason(ctx, tokenString)
	case err != nil:
		return models.RefreshToken{}, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

// missReason tells a used token apart from an unknown one
func (r *RefreshTokenRepo) missReason(ctx context.Context, tokenString string) error {
	var exists bool
	err := r.DB.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token = $1)",
		tokenString,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if exists {
		return apperrors.ErrRefreshTokenIsUsed
	}
	return apperrors.ErrRefreshTokenNotFound
}

func (r *RefreshTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, "DELETE FROM refresh_tokens WHERE expires_at < $1", before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected(), nil
}
