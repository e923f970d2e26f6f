package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// Item represents a product the ledger holds stock of. Catalog
// maintenance (create/edit) is owned by external tooling; the engine
// reads items for identity, categorization, and reorder parameters.
type Item struct {
	shared.BaseEntity
	SKU              string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_items_sku"`
	Name             string           `gorm:"type:varchar(200);not null"`
	Category         string           `gorm:"type:varchar(100);index:idx_items_category"`
	Subcategory      string           `gorm:"type:varchar(100)"`
	ReorderPoint     *int             `gorm:""`
	TargetStockLevel *int             `gorm:""`
	LeadTimeDays     *int             `gorm:""`
	UnitCost         *decimal.Decimal `gorm:"type:decimal(18,4)"`
	IsActive         bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a catalog item
func NewItem(sku, name string) (*Item, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        strings.ToUpper(sku),
		Name:       name,
		IsActive:   true,
	}, nil
}

// HasReorderPoint reports whether restocking thresholds are configured
func (i *Item) HasReorderPoint() bool {
	return i.ReorderPoint != nil && *i.ReorderPoint > 0
}
