package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appledger "github.com/mirai/inventory-backend/internal/application/ledger"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/shared"
	"github.com/mirai/inventory-backend/internal/interfaces/http/dto"
)

// InventoryHandler serves the ledger's write operations and the
// movement log's read side
type InventoryHandler struct {
	BaseHandler
	ledgerService   *appledger.LedgerService
	transferService *appledger.TransferService
	movementService *appledger.MovementQueryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(
	ledgerService *appledger.LedgerService,
	transferService *appledger.TransferService,
	movementService *appledger.MovementQueryService,
) *InventoryHandler {
	return &InventoryHandler{
		ledgerService:   ledgerService,
		transferService: transferService,
		movementService: movementService,
	}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("/quantity", h.GetQuantity)
		inventory.POST("/adjustments", h.AdjustStock)
		inventory.POST("/transfers", h.Transfer)
		inventory.POST("/transfers/batch", h.BatchTransfer)
	}

	movements := rg.Group("/stock-movements")
	{
		movements.GET("", h.QueryMovements)
		movements.GET("/transfers/:id", h.GetTransfer)
	}
}

// GetQuantity returns the current quantity of an item at a location
// GET /inventory/quantity?kind=BOX_BIN&location_id=...&item_id=...
func (h *InventoryHandler) GetQuantity(c *gin.Context) {
	loc, err := dto.LocationRefRequest{
		Kind: c.Query("kind"),
		ID:   c.Query("location_id"),
	}.ToRef()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		h.BadRequest(c, "item_id must be a valid UUID")
		return
	}

	quantity, err := h.ledgerService.GetQuantity(c.Request.Context(), loc, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.QuantityResponse{
		Location: dto.LocationRefResponse{Kind: loc.Kind.String(), ID: loc.ID.String()},
		ItemID:   itemID.String(),
		Quantity: quantity,
	})
}

// AdjustStock applies a signed delta to one (location, item) pair
// POST /inventory/adjustments
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	loc, err := req.Location.ToRef()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "item_id must be a valid UUID")
		return
	}

	actorID, err := parseActorID(c, req.ActorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	movement, err := h.ledgerService.AdjustStock(c.Request.Context(), appledger.AdjustStockCommand{
		Location: loc,
		ItemID:   itemID,
		Delta:    req.Delta,
		Reason:   ledger.Reason(req.Reason),
		ActorID:  actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.NewMovementResponse(movement))
}

// Transfer moves a quantity of one item between two locations
// POST /inventory/transfers
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cmd, err := h.buildTransferCommand(c, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.NewTransferResponse(result))
}

// BatchTransfer moves several distinct items between the same two locations
// POST /inventory/transfers/batch
func (h *InventoryHandler) BatchTransfer(c *gin.Context) {
	var req dto.BatchTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	from, err := req.From.ToRef()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	to, err := req.To.ToRef()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	actorID, err := parseActorID(c, req.ActorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]appledger.BatchTransferItem, 0, len(req.Items))
	for _, item := range req.Items {
		itemID, err := uuid.Parse(item.ItemID)
		if err != nil {
			h.BadRequest(c, "item_id must be a valid UUID")
			return
		}
		items = append(items, appledger.BatchTransferItem{ItemID: itemID, Quantity: item.Quantity})
	}

	result, err := h.transferService.BatchTransfer(c.Request.Context(), appledger.BatchTransferCommand{
		From:    from,
		To:      to,
		Items:   items,
		ActorID: actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewBatchTransferResponse(result))
}

// QueryMovements returns one page of the movement log, newest first
// GET /stock-movements
func (h *InventoryHandler) QueryMovements(c *gin.Context) {
	var req dto.MovementQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	query, err := req.ToQuery()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.movementService.Query(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewMovementPageResponse(page))
}

// GetTransfer returns both halves of a transfer
// GET /stock-movements/transfers/:id
func (h *InventoryHandler) GetTransfer(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "transfer ID must be a valid UUID")
		return
	}

	movements, err := h.movementService.ByTransfer(c.Request.Context(), transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, dto.NewMovementResponse(&movements[i]))
	}
	h.Success(c, responses)
}


// buildTransferCommand converts a transfer request into its command form
func (h *InventoryHandler) buildTransferCommand(c *gin.Context, req dto.TransferRequest) (appledger.TransferCommand, error) {
	from, err := req.From.ToRef()
	if err != nil {
		return appledger.TransferCommand{}, err
	}
	to, err := req.To.ToRef()
	if err != nil {
		return appledger.TransferCommand{}, err
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return appledger.TransferCommand{}, shared.NewDomainError("INVALID_INPUT", "item_id must be a valid UUID")
	}
	actorID, err := parseActorID(c, req.ActorID)
	if err != nil {
		return appledger.TransferCommand{}, err
	}
	return appledger.TransferCommand{
		From:     from,
		To:       to,
		ItemID:   itemID,
		Quantity: req.Quantity,
		ActorID:  actorID,
	}, nil
}
