package models

import (
	"time"

	"github.com/google/uuid"
)

// List is a user curated collection of catalog items
// Items carry frozen snapshots, same as reviews
type List struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Name        string
	Description string
	IsPublic    bool
	Items       []CatalogItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Favorite is a catalog item pinned by a user
type Favorite struct {
	UserID  uuid.UUID
	Item    CatalogItem
	AddedAt time.Time
}
