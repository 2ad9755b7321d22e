package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/models"
)

const userColumns = "id, created_at, username, password_hash, avatar, bio"

type UserRepo struct {
	DB DBTX
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Username, &u.HashedPassword, &u.Avatar, &u.Bio)
	return u, err
}

func (r *UserRepo) CreateUser(ctx context.Context, username string, hashedPassword string) (models.User, error) {
	rows, err := r.DB.Query(ctx,
		"INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING "+userColumns,
		username, hashedPassword,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("db error: %w", err)
	}

	user, err := pgx.CollectOneRow(rows, rowToUser)

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
		return models.User{}, apperrors.ErrUserAlreadyExists
	case err != nil:
		return models.User{}, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, err := r.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if err != nil {
		return models.User{}, fmt.Errorf("db error: %w", err)
	}

	user, err := pgx.CollectOneRow(rows, rowToUser)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return models.User{}, apperrors.ErrUserNotFound
	case err != nil:
		return models.User{}, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, err := r.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	if err != nil {
		return models.User{}, fmt.Errorf("db error: %w", err)
	}

	user, err := pgx.CollectOneRow(rows, rowToUser)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return models.User{}, apperrors.ErrUserNotFound
	case err != nil:
		return models.User{}, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *UserRepo) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	rows, err := r.DB.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE username ILIKE '%' || $1 || '%' ORDER BY created_at DESC LIMIT $2",
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	users, err := pgx.CollectRows(rows, rowToUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, bio *string, avatar *string) (models.User, error) {
	rows, err := r.DB.Query(ctx,
		`UPDATE users
		 SET bio = coalesce($2, bio), avatar = coalesce($3, avatar)
		 WHERE id = $1
		 RETURNING `+userColumns,
		userID, bio, avatar,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("db error: %w", err)
	}

	user, err := pgx.CollectOneRow(rows, rowToUser)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return models.User{}, apperrors.ErrUserNotFound
	case err != nil:
		return models.User{}, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
