package forecast

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirai/inventory-backend/internal/domain/ledger"
)

func saleMovement(t *testing.T, itemID uuid.UUID, change, previous int) ledger.StockMovement {
	t.Helper()
	m, err := ledger.NewStockMovement(itemID, ledger.ReasonSale, change, previous, previous+change)
	require.NoError(t, err)
	return *m
}

func TestAvgDailyDelta(t *testing.T) {
	itemID := uuid.New()

	t.Run("averages SALE depletion over the window", func(t *testing.T) {
		movements := []ledger.StockMovement{
			saleMovement(t, itemID, -4, 100),
			saleMovement(t, itemID, -6, 96),
			saleMovement(t, itemID, -4, 90),
		}

		avg := AvgDailyDelta(movements, 7)

		assert.True(t, avg.Equal(decimal.NewFromFloat(-2)), "got %s", avg)
	})

	t.Run("ignores restocks and transfers", func(t *testing.T) {
		restock, err := ledger.NewStockMovement(itemID, ledger.ReasonRestock, 50, 10, 60)
		require.NoError(t, err)
		transfer, err := ledger.NewStockMovement(itemID, ledger.ReasonTransfer, -5, 60, 55)
		require.NoError(t, err)

		movements := []ledger.StockMovement{*restock, *transfer, saleMovement(t, itemID, -14, 55)}

		avg := AvgDailyDelta(movements, 14)

		assert.True(t, avg.Equal(decimal.NewFromFloat(-1)), "got %s", avg)
	})

	t.Run("zero when no consumption", func(t *testing.T) {
		assert.True(t, AvgDailyDelta(nil, 14).IsZero())
	})
}

func TestDaysToStockout(t *testing.T) {
	t.Run("projects quantity over velocity", func(t *testing.T) {
		days := DaysToStockout(12, decimal.NewFromInt(-4))

		require.NotNil(t, days)
		assert.True(t, days.Equal(decimal.NewFromInt(3)), "got %s", days)
	})

	t.Run("nil when not depleting", func(t *testing.T) {
		assert.Nil(t, DaysToStockout(12, decimal.Zero))
		assert.Nil(t, DaysToStockout(12, decimal.NewFromInt(2)))
	})

	t.Run("zero days when already out of stock", func(t *testing.T) {
		days := DaysToStockout(0, decimal.NewFromInt(-4))

		require.NotNil(t, days)
		assert.True(t, days.IsZero())
	})
}

func TestClassifyRisk(t *testing.T) {
	ptr := func(f float64) *decimal.Decimal {
		d := decimal.NewFromFloat(f)
		return &d
	}

	assert.Equal(t, RiskNormal, ClassifyRisk(nil))
	assert.Equal(t, RiskCritical, ClassifyRisk(ptr(3)))
	assert.Equal(t, RiskCritical, ClassifyRisk(ptr(0.5)))
	assert.Equal(t, RiskWarning, ClassifyRisk(ptr(3.01)))
	assert.Equal(t, RiskWarning, ClassifyRisk(ptr(7)))
	assert.Equal(t, RiskNormal, ClassifyRisk(ptr(7.5)))
}

func TestSuggestedReorderQty(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	t.Run("tops up to target level", func(t *testing.T) {
		assert.Equal(t, 42, SuggestedReorderQty(8, intPtr(50), nil, decimal.NewFromInt(-2)))
	})

	t.Run("bounded at zero when above target", func(t *testing.T) {
		assert.Equal(t, 0, SuggestedReorderQty(60, intPtr(50), nil, decimal.NewFromInt(-2)))
	})

	t.Run("covers lead time when no target configured", func(t *testing.T) {
		// 5 days x 2.5/day = 12.5, rounded up
		assert.Equal(t, 13, SuggestedReorderQty(8, nil, intPtr(5), decimal.NewFromFloat(-2.5)))
	})

	t.Run("zero when not depleting and no target", func(t *testing.T) {
		assert.Equal(t, 0, SuggestedReorderQty(8, nil, intPtr(5), decimal.Zero))
	})
}

func TestSuggestedOrderDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	intPtr := func(v int) *int { return &v }

	t.Run("nil when not depleting", func(t *testing.T) {
		assert.Nil(t, SuggestedOrderDate(now, nil, intPtr(5)))
	})

	t.Run("orders ahead of the stockout by the lead time", func(t *testing.T) {
		days := decimal.NewFromInt(10)

		date := SuggestedOrderDate(now, &days, intPtr(4))

		require.NotNil(t, date)
		assert.Equal(t, now.Add(6*24*time.Hour), *date)
	})

	t.Run("never in the past", func(t *testing.T) {
		days := decimal.NewFromInt(2)

		date := SuggestedOrderDate(now, &days, intPtr(7))

		require.NotNil(t, date)
		assert.Equal(t, now, *date)
	})
}

func TestClassifyStockHealth(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	t.Run("out of stock at zero or below", func(t *testing.T) {
		assert.Equal(t, HealthOutOfStock, ClassifyStockHealth(0, intPtr(20)))
		assert.Equal(t, HealthOutOfStock, ClassifyStockHealth(0, nil))
	})

	t.Run("good without reorder point", func(t *testing.T) {
		assert.Equal(t, HealthGood, ClassifyStockHealth(1, nil))
	})

	t.Run("critical at or below half the reorder point", func(t *testing.T) {
		assert.Equal(t, HealthCritical, ClassifyStockHealth(8, intPtr(20)))
		assert.Equal(t, HealthCritical, ClassifyStockHealth(10, intPtr(20)))
	})

	t.Run("low between half and full reorder point", func(t *testing.T) {
		assert.Equal(t, HealthLow, ClassifyStockHealth(11, intPtr(20)))
		assert.Equal(t, HealthLow, ClassifyStockHealth(20, intPtr(20)))
	})

	t.Run("good above reorder point", func(t *testing.T) {
		assert.Equal(t, HealthGood, ClassifyStockHealth(25, intPtr(20)))
	})

	t.Run("half floor never drops below one", func(t *testing.T) {
		assert.Equal(t, HealthCritical, ClassifyStockHealth(1, intPtr(1)))
	})
}

func TestCompute(t *testing.T) {
	itemID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("derives a critical prediction at high velocity", func(t *testing.T) {
		// -56 over a 14 day window = -4/day; 12 remaining = 3 days out
		movements := []ledger.StockMovement{
			saleMovement(t, itemID, -28, 68),
			saleMovement(t, itemID, -28, 40),
		}

		prediction, err := Compute(itemID, 12, movements, ReorderParams{}, now)

		require.NoError(t, err)
		assert.Equal(t, itemID, prediction.ItemID)
		assert.Equal(t, DefaultHorizonDays, prediction.HorizonDays)
		assert.True(t, prediction.AvgDailyDelta.Equal(decimal.NewFromInt(-4)))
		require.NotNil(t, prediction.DaysToStockout)
		assert.True(t, prediction.DaysToStockout.Equal(decimal.NewFromInt(3)))
		assert.Equal(t, RiskCritical, prediction.RiskLevel)
		assert.Equal(t, now, prediction.ComputedAt)
	})

	t.Run("normal prediction when stock only grows", func(t *testing.T) {
		prediction, err := Compute(itemID, 100, nil, ReorderParams{}, now)

		require.NoError(t, err)
		assert.Nil(t, prediction.DaysToStockout)
		assert.Nil(t, prediction.SuggestedOrderDate)
		assert.Equal(t, RiskNormal, prediction.RiskLevel)
		assert.Equal(t, 0, prediction.SuggestedReorderQty)
	})

	t.Run("rejects nil item", func(t *testing.T) {
		_, err := Compute(uuid.Nil, 10, nil, ReorderParams{}, now)

		assert.Error(t, err)
	})
}
