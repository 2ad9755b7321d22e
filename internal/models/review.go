package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Review is created only through the review service and never updated in place
// Item holds the catalog snapshot captured at submission time
type Review struct {
	ID         uuid.UUID
	ItemID     string
	ItemKind   ItemKind
	Item       CatalogItem
	Rating     int
	Comment    string
	AuthorID   uuid.UUID
	Author     string // username, denormalized for listings
	IsFavorite bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ItemRating aggregates reviews of a single catalog item
type ItemRating struct {
	Average decimal.Decimal
	Count   int
}
