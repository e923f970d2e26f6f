package forecast

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

const (
	// DefaultWindowDays is the trailing window the velocity is averaged over
	DefaultWindowDays = 14
	// DefaultHorizonDays is how far ahead a prediction claims to look
	DefaultHorizonDays = 21
	// DefaultLeadTimeDays is assumed when an item has no configured lead time
	DefaultLeadTimeDays = 7
)

var (
	riskCriticalThreshold = decimal.NewFromInt(3)
	riskWarningThreshold  = decimal.NewFromInt(7)
	baseConfidence        = decimal.NewFromFloat(0.6)
)

// AvgDailyDelta computes the mean signed quantity change per day over a
// trailing window. Only SALE-reason depletion counts as consumption, so
// restocks and transfers do not mask real velocity. A negative result
// means the item is depleting.
func AvgDailyDelta(movements []ledger.StockMovement, windowDays int) decimal.Decimal {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	total := 0
	for i := range movements {
		if movements[i].IsConsumption() {
			total += movements[i].QuantityChange
		}
	}
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(windowDays))).Round(4)
}

// DaysToStockout projects how many days of stock remain at the current
// velocity. Returns nil when the item is not depleting.
func DaysToStockout(currentQuantity int, avgDailyDelta decimal.Decimal) *decimal.Decimal {
	if !avgDailyDelta.IsNegative() {
		return nil
	}
	if currentQuantity <= 0 {
		zero := decimal.Zero
		return &zero
	}
	days := decimal.NewFromInt(int64(currentQuantity)).Div(avgDailyDelta.Abs()).Round(2)
	return &days
}

// ClassifyRisk maps days-to-stockout onto the coarse risk bands.
// A nil input (not depleting) is normal.
func ClassifyRisk(daysToStockout *decimal.Decimal) RiskLevel {
	if daysToStockout == nil {
		return RiskNormal
	}
	if daysToStockout.LessThanOrEqual(riskCriticalThreshold) {
		return RiskCritical
	}
	if daysToStockout.LessThanOrEqual(riskWarningThreshold) {
		return RiskWarning
	}
	return RiskNormal
}

// SuggestedReorderQty recommends how much to order. When a target stock
// level is configured the suggestion tops the item back up to it;
// otherwise it covers the lead time at the current velocity.
func SuggestedReorderQty(currentQuantity int, targetStockLevel, leadTimeDays *int, avgDailyDelta decimal.Decimal) int {
	if targetStockLevel != nil {
		if qty := *targetStockLevel - currentQuantity; qty > 0 {
			return qty
		}
		return 0
	}
	if !avgDailyDelta.IsNegative() {
		return 0
	}
	lead := DefaultLeadTimeDays
	if leadTimeDays != nil && *leadTimeDays > 0 {
		lead = *leadTimeDays
	}
	qty := decimal.NewFromInt(int64(lead)).Mul(avgDailyDelta.Abs()).Ceil()
	return int(qty.IntPart())
}

// SuggestedOrderDate back-computes when an order must be placed so that
// delivery lands before the projected stockout. Never in the past;
// nil when the item is not depleting.
func SuggestedOrderDate(now time.Time, daysToStockout *decimal.Decimal, leadTimeDays *int) *time.Time {
	if daysToStockout == nil {
		return nil
	}
	lead := DefaultLeadTimeDays
	if leadTimeDays != nil && *leadTimeDays > 0 {
		lead = *leadTimeDays
	}
	orderIn := daysToStockout.Sub(decimal.NewFromInt(int64(lead)))
	if orderIn.IsNegative() {
		date := now
		return &date
	}
	hours := orderIn.Mul(decimal.NewFromInt(24))
	date := now.Add(time.Duration(hours.IntPart()) * time.Hour)
	return &date
}

// ClassifyStockHealth grades current quantity against the reorder
// point. This is a position check, not a velocity check, and is
// deliberately distinct from RiskLevel.
func ClassifyStockHealth(quantity int, reorderPoint *int) StockHealth {
	if quantity <= 0 {
		return HealthOutOfStock
	}
	if reorderPoint == nil || *reorderPoint <= 0 {
		return HealthGood
	}
	critical := *reorderPoint / 2
	if critical < 1 {
		critical = 1
	}
	if quantity <= critical {
		return HealthCritical
	}
	if quantity <= *reorderPoint {
		return HealthLow
	}
	return HealthGood
}

// ReorderParams carries the per-item knobs the calculator reads
type ReorderParams struct {
	ReorderPoint     *int
	TargetStockLevel *int
	LeadTimeDays     *int
}

// Compute derives a full prediction for one item from its recent
// movement series. Pure with respect to its inputs; callers persist the
// result as a cache only.
func Compute(itemID uuid.UUID, currentQuantity int, movements []ledger.StockMovement, params ReorderParams, now time.Time) (*Prediction, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}

	avg := AvgDailyDelta(movements, DefaultWindowDays)
	days := DaysToStockout(currentQuantity, avg)

	return &Prediction{
		BaseEntity:          shared.NewBaseEntity(),
		ItemID:              itemID,
		HorizonDays:         DefaultHorizonDays,
		AvgDailyDelta:       avg,
		DaysToStockout:      days,
		SuggestedReorderQty: SuggestedReorderQty(currentQuantity, params.TargetStockLevel, params.LeadTimeDays, avg),
		SuggestedOrderDate:  SuggestedOrderDate(now, days, params.LeadTimeDays),
		Confidence:          baseConfidence,
		RiskLevel:           ClassifyRisk(days),
		ComputedAt:          now,
	}, nil
}
