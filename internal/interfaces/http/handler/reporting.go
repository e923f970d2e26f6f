package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appreporting "github.com/mirai/inventory-backend/internal/application/reporting"
	"github.com/mirai/inventory-backend/internal/domain/location"
	"github.com/mirai/inventory-backend/internal/interfaces/http/dto"
)

// ReportingHandler serves the read-side aggregations: enriched item
// listings, per-item totals, and the dashboard summary
type ReportingHandler struct {
	BaseHandler
	reportingService *appreporting.ReportingService
}

// NewReportingHandler creates a new ReportingHandler
func NewReportingHandler(reportingService *appreporting.ReportingService) *ReportingHandler {
	return &ReportingHandler{reportingService: reportingService}
}

// RegisterRoutes registers reporting routes
func (h *ReportingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.GET("", h.ListItems)
		items.GET("/:id/total", h.GetItemTotal)
	}
	rg.GET("/inventory/summary", h.GetSummary)
}

// ListItems returns one page of items enriched with stock totals
// GET /items
func (h *ReportingHandler) ListItems(c *gin.Context) {
	var req dto.ItemListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	query := appreporting.ItemListQuery{
		Category:         req.Category,
		IncludeForecasts: req.IncludeForecasts,
		SortBy:           req.SortBy,
		SortOrder:        req.SortOrder,
		Limit:            req.Limit,
		Offset:           req.Offset,
	}
	if req.LocationKind != "" {
		kind, err := location.ParseKind(req.LocationKind)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		query.LocationKind = &kind
	}

	result, err := h.reportingService.ListItems(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]dto.ItemSummaryResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, dto.NewItemSummaryResponse(&result.Items[i]))
	}
	page := 0
	if result.Limit > 0 {
		page = result.Offset / result.Limit
	}
	h.SuccessWithMeta(c, items, result.Total, page, result.Limit)
}

// GetItemTotal returns one item's quantity summed across all locations
// GET /items/:id/total
func (h *ReportingHandler) GetItemTotal(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "item ID must be a valid UUID")
		return
	}

	total, err := h.reportingService.TotalQuantity(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ItemTotalResponse{
		ItemID:        total.ItemID.String(),
		Quantity:      total.Quantity,
		LastUpdatedAt: total.LastUpdatedAt,
	})
}

// GetSummary returns the dashboard roll-up across the whole operation
// GET /inventory/summary
func (h *ReportingHandler) GetSummary(c *gin.Context) {
	summary, err := h.reportingService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSummaryResponse(summary))
}
