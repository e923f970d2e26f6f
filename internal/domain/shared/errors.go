package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrRecordNotFound         = NewDomainError("RECORD_NOT_FOUND", "Inventory record not found")
	ErrItemNotFound           = NewDomainError("ITEM_NOT_FOUND", "Item not found")
	ErrLocationNotFound       = NewDomainError("LOCATION_NOT_FOUND", "Location not found")
	ErrUnknownLocationKind    = NewDomainError("UNKNOWN_LOCATION_KIND", "Unknown location kind")
	ErrInvalidLocationCode    = NewDomainError("INVALID_LOCATION_CODE", "Location code does not match the pattern for its kind")
	ErrInsufficientStock      = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidQuantity        = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	ErrNoOpTransfer           = NewDomainError("NO_OP_TRANSFER", "Source and destination locations are identical")
	ErrConcurrentModification = NewDomainError("CONCURRENT_MODIFICATION", "Inventory record was modified by another process")
	ErrInvalidInput           = NewDomainError("INVALID_INPUT", "Invalid input provided")
)
