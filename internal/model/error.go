package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeDuplicateCartLine   = "DUPLICATE_CART_LINE"
	ErrCodeMissingAddress      = "MISSING_ADDRESS"
	ErrCodeUnserviceableArea   = "UNSERVICEABLE_AREA"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeAllocationConflict  = "ALLOCATION_CONFLICT"
	ErrCodeDuplicateOrder      = "DUPLICATE_ORDER"
	ErrCodeInvalidBatch        = "INVALID_BATCH"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeAvailabilityUnknown = "AVAILABILITY_UNKNOWN"
)

// DomainError is a business-rule failure with a machine-readable code.
// Retryable marks failures that are worth re-submitting unchanged, such as
// losing an allocation race to a concurrent order.
type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new non-retryable domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewRetryableError creates a domain error the caller may retry.
func NewRetryableError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Retryable: true}
}

// Common domain errors
var (
	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, "Cart must contain at least one line")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrDuplicateCartLine   = NewDomainError(ErrCodeDuplicateCartLine, "Cart contains the same product more than once")
	ErrMissingAddress      = NewDomainError(ErrCodeMissingAddress, "Destination address is required")
	ErrUnserviceableArea   = NewDomainError(ErrCodeUnserviceableArea, "Destination postal code is outside the serviceable territory")
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrInsufficientStock   = NewDomainError(ErrCodeInsufficientStock, "Requested quantity exceeds available stock")
	ErrAllocationConflict  = NewRetryableError(ErrCodeAllocationConflict, "Stock was claimed by a concurrent order, try again")
	ErrDuplicateOrder      = NewDomainError(ErrCodeDuplicateOrder, "An order with this idempotency key was already submitted")
	ErrInvalidBatch        = NewDomainError(ErrCodeInvalidBatch, "Batch label and a positive quantity are required")
	ErrAvailabilityUnknown = NewRetryableError(ErrCodeAvailabilityUnknown, "Stock availability could not be determined, try again")
)

// Retryable reports whether err is a domain error marked retryable.
func Retryable(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Retryable
	}
	return false
}
