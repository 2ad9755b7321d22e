package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/repository"
)

const reviewColumns = "r.id, r.item_id, r.item_kind, r.item, r.rating, r.comment, r.author_id, u.username, r.is_favorite, r.created_at, r.updated_at"

type ReviewRepo struct {
	DB DBTX
}

func rowToReview(row pgx.CollectableRow) (models.Review, error) {
	var r models.Review
	err := row.Scan(
		&r.ID, &r.ItemID, &r.ItemKind, &r.Item, &r.Rating, &r.Comment,
		&r.AuthorID, &r.Author, &r.IsFavorite, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *ReviewRepo) CreateReview(ctx context.Context, params repository.CreateReviewParams) (models.Review, error) {
	rows, err := r.DB.Query(ctx,
		`WITH inserted AS (
		     INSERT INTO reviews (item_id, item_kind, item, rating, comment, author_id, is_favorite)
		     VALUES ($1, $2, $3, $4, $5, $6, $7)
		     RETURNING *
		 )
		 SELECT `+reviewColumns+`
		 FROM inserted r
		 JOIN users u ON u.id = r.author_id`,
		params.Item.ID, params.Item.Kind, params.Item,
		params.Rating, params.Comment, params.AuthorID, params.IsFavorite,
	)
	if err != nil {
		return models.Review{}, fmt.Errorf("db error: %w", err)
	}

	review, err := pgx.CollectOneRow(rows, rowToReview)
	if err != nil {
		return models.Review{}, fmt.Errorf("db error: %w", err)
	}

	return review, nil
}

func (r *ReviewRepo) ListForItem(ctx context.Context, kind models.ItemKind, itemID string) ([]models.Review, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+reviewColumns+`
		 FROM reviews r
		 JOIN users u ON u.id = r.author_id
		 WHERE r.item_kind = $1 AND r.item_id = $2
		 ORDER BY r.created_at DESC`,
		kind, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	reviews, err := pgx.CollectRows(rows, rowToReview)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reviews, nil
}

func (r *ReviewRepo) ItemRating(ctx context.Context, kind models.ItemKind, itemID string) (models.ItemRating, error) {
	var rating models.ItemRating
	var avg decimal.NullDecimal

	err := r.DB.QueryRow(ctx,
		"SELECT round(avg(rating), 2), count(*) FROM reviews WHERE item_kind = $1 AND item_id = $2",
		kind, itemID,
	).Scan(&avg, &rating.Count)
	if err != nil {
		return models.ItemRating{}, fmt.Errorf("db error: %w", err)
	}

	if avg.Valid {
		rating.Average = avg.Decimal
	}

	return rating, nil
}

func (r *ReviewRepo) ListLatest(ctx context.Context, limit int) ([]models.Review, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+reviewColumns+`
		 FROM reviews r
		 JOIN users u ON u.id = r.author_id
		 ORDER BY r.created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	reviews, err := pgx.CollectRows(rows, rowToReview)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reviews, nil
}

func (r *ReviewRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Review, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+reviewColumns+`
		 FROM reviews r
		 JOIN users u ON u.id = r.author_id
		 WHERE r.author_id = $1
		 ORDER BY r.created_at DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	reviews, err := pgx.CollectRows(rows, rowToReview)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reviews, nil
}

func (r *ReviewRepo) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, "SELECT count(*) FROM reviews WHERE author_id = $1", authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
