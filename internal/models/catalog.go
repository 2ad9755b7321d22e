package models

// ItemKind is a catalog entity type as the upstream catalog represents it
type ItemKind string

const (
	ItemTrack  ItemKind = "track"
	ItemAlbum  ItemKind = "album"
	ItemArtist ItemKind = "artist"
)

// Valid reports whether the kind is one the catalog understands
func (k ItemKind) Valid() bool {
	switch k {
	case ItemTrack, ItemAlbum, ItemArtist:
		return true
	}
	return false
}

// Reviewable reports whether items of this kind may be reviewed
// Artists can be searched and shown but not reviewed
func (k ItemKind) Reviewable() bool {
	return k == ItemTrack || k == ItemAlbum
}

// CatalogItem is a normalized snapshot of a catalog entity
// Once embedded into a review, favorite or list item it is frozen: it does not
// track the live catalog and survives upstream unavailability
type CatalogItem struct {
	ID       string   `json:"id"`
	Kind     ItemKind `json:"kind"`
	Name     string   `json:"name"`
	Artist   string   `json:"artist"`
	CoverURL string   `json:"cover"`
}
