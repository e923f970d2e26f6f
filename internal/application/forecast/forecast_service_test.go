package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mirai/inventory-backend/internal/domain/catalog"
	domforecast "github.com/mirai/inventory-backend/internal/domain/forecast"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/location"
)

// MockRecordRepository is a mock implementation of ledger.InventoryRecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByLocationAndItem(ctx context.Context, loc location.Ref, itemID uuid.UUID) (*ledger.InventoryRecord, error) {
	args := m.Called(ctx, loc, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByLocationAndItemForUpdate(ctx context.Context, loc location.Ref, itemID uuid.UUID) (*ledger.InventoryRecord, error) {
	args := m.Called(ctx, loc, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]ledger.InventoryRecord, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]ledger.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) Create(ctx context.Context, record *ledger.InventoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) SaveWithLock(ctx context.Context, record *ledger.InventoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) TotalForItem(ctx context.Context, itemID uuid.UUID) (*ledger.ItemTotal, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ItemTotal), args.Error(1)
}

func (m *MockRecordRepository) TotalsForAllItems(ctx context.Context, kind *location.Kind) ([]ledger.ItemTotal, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]ledger.ItemTotal), args.Error(1)
}

func (m *MockRecordRepository) TotalsByKind(ctx context.Context) ([]ledger.KindTotal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ledger.KindTotal), args.Error(1)
}

// MockMovementRepository is a mock implementation of ledger.StockMovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *ledger.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) CreateBatch(ctx context.Context, movements []*ledger.StockMovement) error {
	args := m.Called(ctx, movements)
	return args.Error(0)
}

func (m *MockMovementRepository) Query(ctx context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.StockMovement), args.Get(1).(int64), args.Error(2)
}

func (m *MockMovementRepository) FindByItemSince(ctx context.Context, itemID uuid.UUID, since time.Time) ([]ledger.StockMovement, error) {
	args := m.Called(ctx, itemID, since)
	return args.Get(0).([]ledger.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByTransferID(ctx context.Context, transferID uuid.UUID) ([]ledger.StockMovement, error) {
	args := m.Called(ctx, transferID)
	return args.Get(0).([]ledger.StockMovement), args.Error(1)
}

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]catalog.Item, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPredictionRepository is a mock implementation of forecast.PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) FindByItem(ctx context.Context, itemID uuid.UUID) (*domforecast.Prediction, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domforecast.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) FindByItems(ctx context.Context, itemIDs []uuid.UUID) ([]domforecast.Prediction, error) {
	args := m.Called(ctx, itemIDs)
	return args.Get(0).([]domforecast.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) Upsert(ctx context.Context, prediction *domforecast.Prediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) FindAtRisk(ctx context.Context, thresholdDays, limit, offset int) ([]domforecast.Prediction, int64, error) {
	args := m.Called(ctx, thresholdDays, limit, offset)
	return args.Get(0).([]domforecast.Prediction), args.Get(1).(int64), args.Error(2)
}

func (m *MockPredictionRepository) CountByRisk(ctx context.Context) (map[domforecast.RiskLevel]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domforecast.RiskLevel]int64), args.Error(1)
}

type forecastFixture struct {
	service     *ForecastService
	records     *MockRecordRepository
	movements   *MockMovementRepository
	items       *MockItemRepository
	predictions *MockPredictionRepository
}

func newForecastFixture(now time.Time) *forecastFixture {
	records := &MockRecordRepository{}
	movements := &MockMovementRepository{}
	items := &MockItemRepository{}
	predictions := &MockPredictionRepository{}
	service := NewForecastService(records, movements, items, predictions).WithClock(func() time.Time { return now })
	return &forecastFixture{
		service:     service,
		records:     records,
		movements:   movements,
		items:       items,
		predictions: predictions,
	}
}

func TestForecastService_Recompute(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("derives and caches a prediction from the movement window", func(t *testing.T) {
		f := newForecastFixture(now)
		item, _ := catalog.NewItem("SKU-1", "Plush Bear")

		sale1, _ := ledger.NewStockMovement(item.ID, ledger.ReasonSale, -28, 68, 40)
		sale2, _ := ledger.NewStockMovement(item.ID, ledger.ReasonSale, -28, 40, 12)

		f.items.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		f.records.On("TotalForItem", mock.Anything, item.ID).Return(&ledger.ItemTotal{ItemID: item.ID, Quantity: 12}, nil)
		f.movements.On("FindByItemSince", mock.Anything, item.ID, now.AddDate(0, 0, -domforecast.DefaultWindowDays)).
			Return([]ledger.StockMovement{*sale1, *sale2}, nil)
		f.predictions.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		prediction, err := f.service.Recompute(context.Background(), item.ID)

		require.NoError(t, err)
		assert.True(t, prediction.AvgDailyDelta.Equal(decimal.NewFromInt(-4)))
		require.NotNil(t, prediction.DaysToStockout)
		assert.True(t, prediction.DaysToStockout.Equal(decimal.NewFromInt(3)))
		assert.Equal(t, domforecast.RiskCritical, prediction.RiskLevel)
		f.predictions.AssertCalled(t, "Upsert", mock.Anything, prediction)
	})

	t.Run("fails for unknown item", func(t *testing.T) {
		f := newForecastFixture(now)
		itemID := uuid.New()
		f.items.On("FindByID", mock.Anything, itemID).Return(nil, nil)

		_, err := f.service.Recompute(context.Background(), itemID)

		require.Error(t, err)
	})
}

func TestForecastService_Latest(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns the cached prediction", func(t *testing.T) {
		f := newForecastFixture(now)
		itemID := uuid.New()
		cached := &domforecast.Prediction{ItemID: itemID, RiskLevel: domforecast.RiskNormal}

		f.items.On("Exists", mock.Anything, itemID).Return(true, nil)
		f.predictions.On("FindByItem", mock.Anything, itemID).Return(cached, nil)

		prediction, err := f.service.Latest(context.Background(), itemID)

		require.NoError(t, err)
		assert.Equal(t, cached, prediction)
	})

	t.Run("computes on demand when no cached row exists", func(t *testing.T) {
		f := newForecastFixture(now)
		item, _ := catalog.NewItem("SKU-2", "Keychain")

		f.items.On("Exists", mock.Anything, item.ID).Return(true, nil)
		f.predictions.On("FindByItem", mock.Anything, item.ID).Return(nil, nil)
		f.items.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		f.records.On("TotalForItem", mock.Anything, item.ID).Return(&ledger.ItemTotal{ItemID: item.ID, Quantity: 30}, nil)
		f.movements.On("FindByItemSince", mock.Anything, item.ID, mock.Anything).Return([]ledger.StockMovement{}, nil)
		f.predictions.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		prediction, err := f.service.Latest(context.Background(), item.ID)

		require.NoError(t, err)
		assert.Equal(t, item.ID, prediction.ItemID)
		assert.Equal(t, domforecast.RiskNormal, prediction.RiskLevel)
	})

	t.Run("fails for unknown item", func(t *testing.T) {
		f := newForecastFixture(now)
		itemID := uuid.New()
		f.items.On("Exists", mock.Anything, itemID).Return(false, nil)

		_, err := f.service.Latest(context.Background(), itemID)

		require.Error(t, err)
	})
}

func TestForecastService_AtRisk(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("applies defaults and returns the page", func(t *testing.T) {
		f := newForecastFixture(now)
		f.predictions.On("FindAtRisk", mock.Anything, defaultAtRiskThreshold, defaultAtRiskLimit, 0).
			Return([]domforecast.Prediction{{}}, int64(1), nil)

		result, err := f.service.AtRisk(context.Background(), 0, 0, -1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		assert.Equal(t, defaultAtRiskLimit, result.Limit)
		assert.Equal(t, 0, result.Offset)
	})

	t.Run("caps oversized limits", func(t *testing.T) {
		f := newForecastFixture(now)
		f.predictions.On("FindAtRisk", mock.Anything, 3, maxAtRiskLimit, 0).
			Return([]domforecast.Prediction{}, int64(0), nil)

		_, err := f.service.AtRisk(context.Background(), 3, 10000, 0)

		require.NoError(t, err)
	})
}
