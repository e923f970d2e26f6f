package dto

import (
	"time"

	"github.com/google/uuid"

	appledger "github.com/mirai/inventory-backend/internal/application/ledger"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/location"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// LocationRefRequest identifies one location in a request body
type LocationRefRequest struct {
	Kind string `json:"kind" binding:"required"`
	ID   string `json:"id" binding:"required,uuid"`
}

// ToRef converts the request into a validated location reference
func (r LocationRefRequest) ToRef() (location.Ref, error) {
	kind, err := location.ParseKind(r.Kind)
	if err != nil {
		return location.Ref{}, err
	}
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return location.Ref{}, shared.NewDomainError("INVALID_LOCATION", "Location ID must be a valid UUID")
	}
	return location.NewRef(kind, id)
}

// LocationRefResponse identifies one location in a response body
type LocationRefResponse struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// AdjustStockRequest mutates one (location, item) quantity by a signed delta
type AdjustStockRequest struct {
	Location LocationRefRequest `json:"location" binding:"required"`
	ItemID   string             `json:"item_id" binding:"required,uuid"`
	Delta    int                `json:"delta" binding:"required"`
	Reason   string             `json:"reason" binding:"required,movementreason"`
	ActorID  *string            `json:"actor_id" binding:"omitempty,uuid"`
}

// TransferRequest moves a quantity of one item between two locations
type TransferRequest struct {
	From     LocationRefRequest `json:"from" binding:"required"`
	To       LocationRefRequest `json:"to" binding:"required"`
	ItemID   string             `json:"item_id" binding:"required,uuid"`
	Quantity int                `json:"quantity" binding:"required"`
	ActorID  *string            `json:"actor_id" binding:"omitempty,uuid"`
}

// BatchTransferItemRequest is one item line inside a batch transfer
type BatchTransferItemRequest struct {
	ItemID   string `json:"item_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required"`
}

// BatchTransferRequest moves several distinct items between the same two locations
type BatchTransferRequest struct {
	From    LocationRefRequest         `json:"from" binding:"required"`
	To      LocationRefRequest         `json:"to" binding:"required"`
	Items   []BatchTransferItemRequest `json:"items" binding:"required,min=1,dive"`
	ActorID *string                    `json:"actor_id" binding:"omitempty,uuid"`
}

// QuantityResponse reports the current quantity at one (location, item) pair
type QuantityResponse struct {
	Location LocationRefResponse `json:"location"`
	ItemID   string              `json:"item_id"`
	Quantity int                 `json:"quantity"`
}

// MovementResponse is one movement log entry
type MovementResponse struct {
	ID               string               `json:"id"`
	ItemID           string               `json:"item_id"`
	Reason           string               `json:"reason"`
	QuantityChange   int                  `json:"quantity_change"`
	PreviousQuantity int                  `json:"previous_quantity"`
	CurrentQuantity  int                  `json:"current_quantity"`
	ActorID          *string              `json:"actor_id,omitempty"`
	From             *LocationRefResponse `json:"from,omitempty"`
	To               *LocationRefResponse `json:"to,omitempty"`
	TransferID       *string              `json:"transfer_id,omitempty"`
	OccurredAt       time.Time            `json:"occurred_at"`
}

// NewMovementResponse converts a movement entity into its response form
func NewMovementResponse(m *ledger.StockMovement) MovementResponse {
	resp := MovementResponse{
		ID:               m.ID.String(),
		ItemID:           m.ItemID.String(),
		Reason:           m.Reason.String(),
		QuantityChange:   m.QuantityChange,
		PreviousQuantity: m.PreviousQuantity,
		CurrentQuantity:  m.CurrentQuantity,
		OccurredAt:       m.OccurredAt,
	}
	if m.ActorID != nil {
		actorID := m.ActorID.String()
		resp.ActorID = &actorID
	}
	if m.FromLocationKind != nil && m.FromLocationID != nil {
		resp.From = &LocationRefResponse{Kind: m.FromLocationKind.String(), ID: m.FromLocationID.String()}
	}
	if m.ToLocationKind != nil && m.ToLocationID != nil {
		resp.To = &LocationRefResponse{Kind: m.ToLocationKind.String(), ID: m.ToLocationID.String()}
	}
	if m.TransferID != nil {
		transferID := m.TransferID.String()
		resp.TransferID = &transferID
	}
	return resp
}

// TransferResponse carries both halves of a committed transfer
type TransferResponse struct {
	TransferID string           `json:"transfer_id"`
	Outbound   MovementResponse `json:"outbound"`
	Inbound    MovementResponse `json:"inbound"`
}

// NewTransferResponse converts a transfer result into its response form
func NewTransferResponse(result *appledger.TransferResult) TransferResponse {
	return TransferResponse{
		TransferID: result.TransferID.String(),
		Outbound:   NewMovementResponse(result.Outbound),
		Inbound:    NewMovementResponse(result.Inbound),
	}
}

// BatchTransferFailureResponse reports why one item's transfer was rejected
type BatchTransferFailureResponse struct {
	ItemID  string `json:"item_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchTransferResponse reports per-item outcomes of a batch transfer
type BatchTransferResponse struct {
	Successful []TransferResponse             `json:"successful"`
	Failed     []BatchTransferFailureResponse `json:"failed"`
}

// NewBatchTransferResponse converts a batch result into its response form
func NewBatchTransferResponse(result *appledger.BatchTransferResult) BatchTransferResponse {
	resp := BatchTransferResponse{
		Successful: make([]TransferResponse, 0, len(result.Successful)),
		Failed:     make([]BatchTransferFailureResponse, 0, len(result.Failed)),
	}
	for i := range result.Successful {
		resp.Successful = append(resp.Successful, NewTransferResponse(&result.Successful[i]))
	}
	for _, failure := range result.Failed {
		resp.Failed = append(resp.Failed, BatchTransferFailureResponse{
			ItemID:  failure.ItemID.String(),
			Code:    failure.Code,
			Message: failure.Message,
		})
	}
	return resp
}

// MovementQueryRequest filters the movement log listing
type MovementQueryRequest struct {
	ItemID     string `form:"item_id" binding:"omitempty,uuid"`
	ActorID    string `form:"actor_id" binding:"omitempty,uuid"`
	Reason     string `form:"reason"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page" binding:"omitempty,min=0"`
	Size       int    `form:"size" binding:"omitempty,min=1"`
}

// ToQuery converts the request into an application-layer movement query
func (r MovementQueryRequest) ToQuery() (appledger.MovementQuery, error) {
	query := appledger.MovementQuery{Page: r.Page, Size: r.Size}

	if r.ItemID != "" {
		id, err := uuid.Parse(r.ItemID)
		if err != nil {
			return query, shared.ErrInvalidInput
		}
		query.ItemID = &id
	}
	if r.ActorID != "" {
		id, err := uuid.Parse(r.ActorID)
		if err != nil {
			return query, shared.ErrInvalidInput
		}
		query.ActorID = &id
	}
	if r.LocationID != "" {
		id, err := uuid.Parse(r.LocationID)
		if err != nil {
			return query, shared.ErrInvalidInput
		}
		query.LocationID = &id
	}
	if r.Reason != "" {
		reason := ledger.Reason(r.Reason)
		query.Reason = &reason
	}
	if r.From != "" {
		from, err := time.Parse(time.RFC3339, r.From)
		if err != nil {
			return query, shared.NewDomainError("INVALID_INPUT", "from must be an RFC 3339 timestamp")
		}
		query.FromDate = &from
	}
	if r.To != "" {
		to, err := time.Parse(time.RFC3339, r.To)
		if err != nil {
			return query, shared.NewDomainError("INVALID_INPUT", "to must be an RFC 3339 timestamp")
		}
		query.ToDate = &to
	}
	return query, nil
}

// MovementPageResponse is one page of the movement log, newest first
type MovementPageResponse struct {
	Content       []MovementResponse `json:"content"`
	Page          int                `json:"page"`
	Size          int                `json:"size"`
	TotalElements int64              `json:"total_elements"`
	TotalPages    int                `json:"total_pages"`
	First         bool               `json:"first"`
	Last          bool               `json:"last"`
}

// NewMovementPageResponse converts a movement page into its response form
func NewMovementPageResponse(page *appledger.MovementPage) MovementPageResponse {
	content := make([]MovementResponse, 0, len(page.Content))
	for i := range page.Content {
		content = append(content, NewMovementResponse(&page.Content[i]))
	}
	return MovementPageResponse{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	}
}
