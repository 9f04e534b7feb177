package models

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"

	// Menu-specific errors
	ErrCategoryNotFound = "CATEGORY_NOT_FOUND"
	ErrMenuItemNotFound = "MENU_ITEM_NOT_FOUND"
	ErrMenuItemInvalid  = "MENU_ITEM_INVALID_DATA"

	// Order-specific errors
	ErrOrderNotFound    = "ORDER_NOT_FOUND"
	ErrOrderInvalid     = "ORDER_INVALID_DATA"
	ErrItemUnavailable  = "MENU_ITEM_UNAVAILABLE"
	ErrOrderStatusValue = "ORDER_INVALID_STATUS"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}
