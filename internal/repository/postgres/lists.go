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
	"github.com/ccoutinho/letterfy/internal/repository"
)

const listColumns = "id, author_id, name, description, is_public, created_at, updated_at"

type ListRepo struct {
	DB DBTX
}

func rowToList(row pgx.CollectableRow) (models.List, error) {
	var l models.List
	err := row.Scan(&l.ID, &l.AuthorID, &l.Name, &l.Description, &l.IsPublic, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *ListRepo) CreateList(ctx context.Context, params repository.CreateListParams) (models.List, error) {
	rows, err := r.DB.Query(ctx,
		`INSERT INTO lists (author_id, name, description, is_public)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+listColumns,
		params.AuthorID, params.Name, params.Description, params.IsPublic,
	)
	if err != nil {
		return models.List{}, fmt.Errorf("db error: %w", err)
	}

	list, err := pgx.CollectOneRow(rows, rowToList)
	if err != nil {
		return models.List{}, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func (r *ListRepo) GetList(ctx context.Context, listID uuid.UUID) (models.List, error) {
	rows, err := r.DB.Query(ctx, "SELECT "+listColumns+" FROM lists WHERE id = $1", listID)
	if err != nil {
		return models.List{}, fmt.Errorf("db error: %w", err)
	}

	list, err := pgx.CollectOneRow(rows, rowToList)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return models.List{}, apperrors.ErrListNotFound
	case err != nil:
		return models.List{}, fmt.Errorf("db error: %w", err)
	}

	itemRows, err := r.DB.Query(ctx,
		"SELECT item FROM list_items WHERE list_id = $1 ORDER BY position",
		listID,
	)
	if err != nil {
		return models.List{}, fmt.Errorf("db error: %w", err)
	}

	list.Items, err = pgx.CollectRows(itemRows, func(row pgx.CollectableRow) (models.CatalogItem, error) {
		var item models.CatalogItem
		err := row.Scan(&item)
		return item, err
	})
	if err != nil {
		return models.List{}, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func (r *ListRepo) AddItem(ctx context.Context, listID uuid.UUID, item models.CatalogItem) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO list_items (list_id, position, item_id, item_kind, item)
		 SELECT $1, coalesce(max(position) + 1, 0), $2, $3, $4
		 FROM list_items WHERE list_id = $1
		 ON CONFLICT (list_id, item_kind, item_id) DO NOTHING`,
		listID, item.ID, item.Kind, item,
	)

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation:
		return apperrors.ErrListNotFound
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	}

	_, err = r.DB.Exec(ctx, "UPDATE lists SET updated_at = now() WHERE id = $1", listID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *ListRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, includePrivate bool) ([]models.List, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+listColumns+`
		 FROM lists
		 WHERE author_id = $1 AND (is_public OR $2)
		 ORDER BY created_at DESC`,
		authorID, includePrivate,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	lists, err := pgx.CollectRows(rows, rowToList)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return lists, nil
}
