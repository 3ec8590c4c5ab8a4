package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeVariantNotFound  = "VARIANT_NOT_FOUND"
	ErrCodeDiamondNotFound  = "DIAMOND_NOT_FOUND"
	ErrCodeQuotationNotFound = "QUOTATION_NOT_FOUND"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeMissingGroup     = "MISSING_QUOTATION_GROUP"
	ErrCodeNotApprovable    = "QUOTATION_NOT_APPROVABLE"
	ErrCodeEmptyApprovalSet = "EMPTY_APPROVAL_SET"
	ErrCodeGroupConverted   = "GROUP_ALREADY_CONVERTED"
	ErrCodeVariantMismatch  = "VARIANT_PRODUCT_MISMATCH"
	ErrCodeUnknownStatus    = "UNKNOWN_ORDER_STATUS"
	ErrCodeNotRespondable   = "QUOTATION_NOT_AWAITING_RESPONSE"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// ErrorKind classifies a domain error for boundary mapping.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota
	KindNotFound
)

// DomainError is a typed business-rule failure.
type DomainError struct {
	Code    string
	Message string
	Kind    ErrorKind
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewNotFound creates a not-found domain error.
func NewNotFound(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindNotFound}
}

// NewBadRequest creates a bad-request domain error.
func NewBadRequest(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindBadRequest}
}

// Common domain errors
var (
	ErrProductNotFound   = NewNotFound(ErrCodeProductNotFound, "Product not found")
	ErrVariantNotFound   = NewNotFound(ErrCodeVariantNotFound, "Variant not found")
	ErrDiamondNotFound   = NewNotFound(ErrCodeDiamondNotFound, "One or more diamonds not found")
	ErrQuotationNotFound = NewNotFound(ErrCodeQuotationNotFound, "Quotation not found")
	ErrOrderNotFound     = NewNotFound(ErrCodeOrderNotFound, "Order not found")

	ErrInvalidQuantity  = NewBadRequest(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrMissingGroup     = NewBadRequest(ErrCodeMissingGroup, "Quotation group id is required")
	ErrNotApprovable    = NewBadRequest(ErrCodeNotApprovable, "Quotation is not in an approvable state")
	ErrEmptyApprovalSet = NewBadRequest(ErrCodeEmptyApprovalSet, "No approvable quotations in the group")
	ErrGroupConverted   = NewBadRequest(ErrCodeGroupConverted, "Quotation group already has an order")
	ErrVariantMismatch  = NewBadRequest(ErrCodeVariantMismatch, "Variant does not belong to the product")
	ErrUnknownStatus    = NewBadRequest(ErrCodeUnknownStatus, "Unknown order status")
	ErrNotRespondable   = NewBadRequest(ErrCodeNotRespondable, "Quotation is not awaiting customer response")
)
