package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	Category    string
	Subcategory string
	ActiveOnly  bool
	SortBy      string
	SortOrder   string
	Limit       int
	Offset      int
}

// ItemRepository defines read access to the item catalog
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindBySKU finds an item by its SKU
	FindBySKU(ctx context.Context, sku string) (*Item, error)

	// FindAll lists items matching the filter, ordered by name, with
	// the total match count
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, int64, error)

	// FindByIDs loads several items in one query
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// Exists reports whether an item exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
