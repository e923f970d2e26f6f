package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// MovementQueryService serves the read side of the movement log
type MovementQueryService struct {
	movementRepo ledger.StockMovementRepository
}

// NewMovementQueryService creates a new MovementQueryService
func NewMovementQueryService(movementRepo ledger.StockMovementRepository) *MovementQueryService {
	return &MovementQueryService{movementRepo: movementRepo}
}

// Query returns one page of movements matching the filter, newest first
func (s *MovementQueryService) Query(ctx context.Context, query MovementQuery) (*MovementPage, error) {
	if query.Reason != nil && !query.Reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid stock movement reason")
	}
	if query.Page < 0 {
		query.Page = 0
	}
	if query.Size <= 0 {
		query.Size = defaultPageSize
	}
	if query.Size > maxPageSize {
		query.Size = maxPageSize
	}

	movements, total, err := s.movementRepo.Query(ctx, ledger.MovementFilter{
		ItemID:     query.ItemID,
		ActorID:    query.ActorID,
		Reason:     query.Reason,
		LocationID: query.LocationID,
		FromDate:   query.FromDate,
		ToDate:     query.ToDate,
		Page:       query.Page,
		Size:       query.Size,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / query.Size
	if int(total)%query.Size > 0 {
		totalPages++
	}

	return &MovementPage{
		Content:       movements,
		Page:          query.Page,
		Size:          query.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         query.Page == 0,
		Last:          query.Page >= totalPages-1,
	}, nil
}

// ByTransfer returns both halves of a transfer, outbound first
func (s *MovementQueryService) ByTransfer(ctx context.Context, transferID uuid.UUID) ([]ledger.StockMovement, error) {
	movements, err := s.movementRepo.FindByTransferID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return nil, shared.NewDomainError("RECORD_NOT_FOUND", "Transfer not found")
	}
	return movements, nil
}
