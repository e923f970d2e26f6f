package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when a withdrawal exceeds on-hand stock
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// transport codes. Domain codes that express "this resource does not
// exist" collapse onto ERR_NOT_FOUND; rule violations onto
// ERR_BUSINESS_RULE.
var DomainErrorCodeMapping = map[string]string{
	"RECORD_NOT_FOUND":      ErrCodeNotFound,
	"ITEM_NOT_FOUND":        ErrCodeNotFound,
	"LOCATION_NOT_FOUND":    ErrCodeNotFound,
	"UNKNOWN_LOCATION_KIND": ErrCodeNotFound,

	"CONCURRENT_MODIFICATION": ErrCodeConcurrencyConflict,

	"INSUFFICIENT_STOCK": ErrCodeInsufficientStock,
	"INVALID_QUANTITY":   ErrCodeBusinessRule,
	"NO_OP_TRANSFER":     ErrCodeBusinessRule,
	"INVALID_MOVEMENT":   ErrCodeBusinessRule,
	"INVALID_REASON":     ErrCodeBusinessRule,

	"INVALID_LOCATION_CODE": ErrCodeValidation,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_ITEM":          ErrCodeInvalidInput,
	"INVALID_LOCATION":      ErrCodeInvalidInput,
	"INVALID_SKU":           ErrCodeInvalidInput,
	"INVALID_NAME":          ErrCodeInvalidInput,

	"INTERNAL_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
