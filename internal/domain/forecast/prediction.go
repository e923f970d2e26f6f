package forecast

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// RiskLevel is a coarse stockout classification derived from
// days-to-stockout
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskWarning  RiskLevel = "warning"
	RiskNormal   RiskLevel = "normal"
)

// StockHealth classifies current quantity against an item's reorder
// point, independent of movement velocity
type StockHealth string

const (
	HealthGood       StockHealth = "good"
	HealthLow        StockHealth = "low"
	HealthCritical   StockHealth = "critical"
	HealthOutOfStock StockHealth = "out-of-stock"
)

// Prediction is a derived, regenerable forecast row for one item. It is
// a cache of calculator output, never ground truth.
type Prediction struct {
	shared.BaseEntity
	ItemID              uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_forecast_predictions_item"`
	HorizonDays         int              `gorm:"not null"`
	AvgDailyDelta       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	DaysToStockout      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	SuggestedReorderQty int              `gorm:"not null;default:0"`
	SuggestedOrderDate  *time.Time       `gorm:"type:timestamptz"`
	Confidence          decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	RiskLevel           RiskLevel        `gorm:"type:varchar(10);not null"`
	ComputedAt          time.Time        `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (Prediction) TableName() string {
	return "forecast_predictions"
}
