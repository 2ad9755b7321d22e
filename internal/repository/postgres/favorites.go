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

type FavoriteRepo struct {
	DB DBTX
}

func rowToFavorite(row pgx.CollectableRow) (models.Favorite, error) {
	var f models.Favorite
	err := row.Scan(&f.UserID, &f.Item, &f.AddedAt)
	return f, err
}

func (r *FavoriteRepo) Add(ctx context.Context, userID uuid.UUID, item models.CatalogItem) (models.Favorite, error) {
	rows, err := r.DB.Query(ctx,
		`INSERT INTO favorites (user_id, item_id, item_kind, item)
		 VALUES ($1, $2, $3, $4)
		 RETURNING user_id, item, added_at`,
		userID, item.ID, item.Kind, item,
	)
	if err != nil {
		return models.Favorite{}, fmt.Errorf("db error: %w", err)
	}

	favorite, err := pgx.CollectOneRow(rows, rowToFavorite)

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return models.Favorite{}, apperrors.ErrAlreadyFavorite
	case err != nil:
		return models.Favorite{}, fmt.Errorf("db error: %w", err)
	}

	return favorite, nil
}

func (r *FavoriteRepo) Remove(ctx context.Context, userID uuid.UUID, kind models.ItemKind, itemID string) error {
	tag, err := r.DB.Exec(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND item_kind = $2 AND item_id = $3",
		userID, kind, itemID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrFavoriteNotFound
	}

	return nil
}

func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	rows, err := r.DB.Query(ctx,
		"SELECT user_id, item, added_at FROM favorites WHERE user_id = $1 ORDER BY added_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	favorites, err := pgx.CollectRows(rows, rowToFavorite)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return favorites, nil
}
