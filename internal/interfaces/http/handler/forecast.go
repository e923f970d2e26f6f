package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appforecast "github.com/mirai/inventory-backend/internal/application/forecast"
	"github.com/mirai/inventory-backend/internal/interfaces/http/dto"
)

// ForecastHandler serves depletion forecasts and reorder suggestions
type ForecastHandler struct {
	BaseHandler
	forecastService  *appforecast.ForecastService
	defaultThreshold int
}

// NewForecastHandler creates a new ForecastHandler. defaultThreshold is
// the at-risk cutoff in days applied when a request does not name one.
func NewForecastHandler(forecastService *appforecast.ForecastService, defaultThreshold int) *ForecastHandler {
	return &ForecastHandler{
		forecastService:  forecastService,
		defaultThreshold: defaultThreshold,
	}
}

// RegisterRoutes registers forecast routes
func (h *ForecastHandler) RegisterRoutes(rg *gin.RouterGroup) {
	forecasts := rg.Group("/forecasts")
	{
		forecasts.GET("/at-risk", h.ListAtRisk)
		forecasts.GET("/:item_id", h.GetForecast)
		forecasts.POST("/:item_id/recompute", h.Recompute)
	}
}

// GetForecast returns the cached prediction for an item, recomputing
// when none is stored yet
// GET /forecasts/:item_id
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "item ID must be a valid UUID")
		return
	}

	prediction, err := h.forecastService.Latest(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewPredictionResponse(prediction))
}

// Recompute rebuilds an item's prediction from its recent movement history
// POST /forecasts/:item_id/recompute
func (h *ForecastHandler) Recompute(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "item ID must be a valid UUID")
		return
	}

	prediction, err := h.forecastService.Recompute(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewPredictionResponse(prediction))
}

// ListAtRisk returns items predicted to stock out soon, most urgent first
// GET /forecasts/at-risk
func (h *ForecastHandler) ListAtRisk(c *gin.Context) {
	var req dto.AtRiskRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = h.defaultThreshold
	}

	result, err := h.forecastService.AtRisk(c.Request.Context(), threshold, req.Limit, req.Offset)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewAtRiskResponse(result))
}
