package dto

import (
	"time"

	appreporting "github.com/mirai/inventory-backend/internal/application/reporting"
	"github.com/mirai/inventory-backend/internal/domain/catalog"
)

// ItemResponse is one catalog item
type ItemResponse struct {
	ID               string  `json:"id"`
	SKU              string  `json:"sku"`
	Name             string  `json:"name"`
	Category         string  `json:"category,omitempty"`
	Subcategory      string  `json:"subcategory,omitempty"`
	ReorderPoint     *int    `json:"reorder_point,omitempty"`
	TargetStockLevel *int    `json:"target_stock_level,omitempty"`
	LeadTimeDays     *int    `json:"lead_time_days,omitempty"`
	UnitCost         *string `json:"unit_cost,omitempty"`
	IsActive         bool    `json:"is_active"`
}

// NewItemResponse converts a catalog item into its response form
func NewItemResponse(item *catalog.Item) ItemResponse {
	resp := ItemResponse{
		ID:               item.ID.String(),
		SKU:              item.SKU,
		Name:             item.Name,
		Category:         item.Category,
		Subcategory:      item.Subcategory,
		ReorderPoint:     item.ReorderPoint,
		TargetStockLevel: item.TargetStockLevel,
		LeadTimeDays:     item.LeadTimeDays,
		IsActive:         item.IsActive,
	}
	if item.UnitCost != nil {
		cost := item.UnitCost.String()
		resp.UnitCost = &cost
	}
	return resp
}

// ItemListRequest narrows the enriched item listing
type ItemListRequest struct {
	LocationKind     string `form:"location_kind"`
	Category         string `form:"category"`
	IncludeForecasts bool   `form:"include_forecasts"`
	SortBy           string `form:"sort_by"`
	SortOrder        string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
	Limit            int    `form:"limit" binding:"omitempty,min=1"`
	Offset           int    `form:"offset" binding:"omitempty,min=0"`
}

// ItemSummaryResponse is one row of the enriched item listing
type ItemSummaryResponse struct {
	Item          ItemResponse        `json:"item"`
	TotalQuantity int64               `json:"total_quantity"`
	LastUpdatedAt *time.Time          `json:"last_updated_at,omitempty"`
	StockHealth   string              `json:"stock_health"`
	Forecast      *PredictionResponse `json:"forecast,omitempty"`
}

// NewItemSummaryResponse converts an item summary into its response form
func NewItemSummaryResponse(summary *appreporting.ItemSummary) ItemSummaryResponse {
	resp := ItemSummaryResponse{
		Item:          NewItemResponse(&summary.Item),
		TotalQuantity: summary.TotalQuantity,
		LastUpdatedAt: summary.LastUpdatedAt,
		StockHealth:   string(summary.StockHealth),
	}
	if summary.Forecast != nil {
		forecast := NewPredictionResponse(summary.Forecast)
		resp.Forecast = &forecast
	}
	return resp
}

// ItemTotalResponse reports one item's aggregated position
type ItemTotalResponse struct {
	ItemID        string    `json:"item_id"`
	Quantity      int64     `json:"quantity"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// KindSummaryResponse aggregates one location kind for the dashboard
type KindSummaryResponse struct {
	LocationKind string `json:"location_kind"`
	Label        string `json:"label"`
	Records      int64  `json:"records"`
	Quantity     int64  `json:"quantity"`
}

// SummaryResponse is the dashboard roll-up across the whole operation
type SummaryResponse struct {
	PerKind       []KindSummaryResponse `json:"per_kind"`
	TotalQuantity int64                 `json:"total_quantity"`
	TotalRecords  int64                 `json:"total_records"`
	AtRiskItems   int64                 `json:"at_risk_items"`
	CriticalItems int64                 `json:"critical_items"`
	GeneratedAt   time.Time             `json:"generated_at"`
}

// NewSummaryResponse converts an inventory summary into its response form
func NewSummaryResponse(summary *appreporting.InventorySummary) SummaryResponse {
	perKind := make([]KindSummaryResponse, 0, len(summary.PerKind))
	for _, kind := range summary.PerKind {
		perKind = append(perKind, KindSummaryResponse{
			LocationKind: kind.LocationKind.String(),
			Label:        kind.Label,
			Records:      kind.Records,
			Quantity:     kind.Quantity,
		})
	}
	return SummaryResponse{
		PerKind:       perKind,
		TotalQuantity: summary.TotalQuantity,
		TotalRecords:  summary.TotalRecords,
		AtRiskItems:   summary.AtRiskItems,
		CriticalItems: summary.CriticalItems,
		GeneratedAt:   summary.GeneratedAt,
	}
}
