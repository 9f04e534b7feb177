package services

import "errors"

// Sentinel errors returned by the service layer. Controllers translate these
// into the HTTP error taxonomy (400/404/etc); anything else is a 500.
var (
	// ErrInvalidInput marks malformed or out-of-range request data
	ErrInvalidInput = errors.New("invalid input")
	// ErrOrderNotFound marks a missing order row
	ErrOrderNotFound = errors.New("order not found")
	// ErrMenuItemNotFound marks a missing menu item row
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrCategoryNotFound marks a missing category row
	ErrCategoryNotFound = errors.New("category not found")
	// ErrItemUnavailable marks an order referencing a sold-out item
	ErrItemUnavailable = errors.New("menu item is not available")
)
