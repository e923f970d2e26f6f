package dto

import (
	"time"

	appforecast "github.com/mirai/inventory-backend/internal/application/forecast"
	"github.com/mirai/inventory-backend/internal/domain/forecast"
)

// PredictionResponse is one cached stockout prediction
type PredictionResponse struct {
	ItemID              string     `json:"item_id"`
	HorizonDays         int        `json:"horizon_days"`
	AvgDailyDelta       string     `json:"avg_daily_delta"`
	DaysToStockout      *string    `json:"days_to_stockout,omitempty"`
	SuggestedReorderQty int        `json:"suggested_reorder_qty"`
	SuggestedOrderDate  *time.Time `json:"suggested_order_date,omitempty"`
	Confidence          string     `json:"confidence"`
	RiskLevel           string     `json:"risk_level"`
	ComputedAt          time.Time  `json:"computed_at"`
}

// NewPredictionResponse converts a prediction into its response form
func NewPredictionResponse(p *forecast.Prediction) PredictionResponse {
	resp := PredictionResponse{
		ItemID:              p.ItemID.String(),
		HorizonDays:         p.HorizonDays,
		AvgDailyDelta:       p.AvgDailyDelta.String(),
		SuggestedReorderQty: p.SuggestedReorderQty,
		SuggestedOrderDate:  p.SuggestedOrderDate,
		Confidence:          p.Confidence.String(),
		RiskLevel:           string(p.RiskLevel),
		ComputedAt:          p.ComputedAt,
	}
	if p.DaysToStockout != nil {
		days := p.DaysToStockout.String()
		resp.DaysToStockout = &days
	}
	return resp
}

// AtRiskRequest narrows the at-risk listing
type AtRiskRequest struct {
	Threshold int `form:"threshold" binding:"omitempty,min=0"`
	Limit     int `form:"limit" binding:"omitempty,min=1"`
	Offset    int `form:"offset" binding:"omitempty,min=0"`
}

// AtRiskResponse is one page of at-risk predictions, most urgent first
type AtRiskResponse struct {
	Predictions []PredictionResponse `json:"predictions"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// NewAtRiskResponse converts an at-risk result into its response form
func NewAtRiskResponse(result *appforecast.AtRiskResult) AtRiskResponse {
	predictions := make([]PredictionResponse, 0, len(result.Predictions))
	for i := range result.Predictions {
		predictions = append(predictions, NewPredictionResponse(&result.Predictions[i]))
	}
	return AtRiskResponse{
		Predictions: predictions,
		Total:       result.Total,
		Limit:       result.Limit,
		Offset:      result.Offset,
	}
}
