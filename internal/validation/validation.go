// Package validation holds pure, stateless input sanitizers shared by the
// order and admin endpoints. Every function is an allow-list check: it either
// returns a normalized value or reports the input as invalid.
package validation

import (
	"math"
	"regexp"
	"strings"

	"github.com/danuarta/cafe-order-api/internal/models"
)

// ValidOrderStatuses is the fixed set of order status values
var ValidOrderStatuses = []string{
	models.StatusPending,
	models.StatusAccepted,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusCompleted,
	models.StatusRejected,
}

const (
	// MaxPrice caps menu prices at ten million (Rupiah)
	MaxPrice = 10_000_000
	// MaxQuantity caps a single order line
	MaxQuantity = 1000
	// MaxSortOrder caps sort positions
	MaxSortOrder = 9999
	// MaxUUIDArray caps id lists (order lines, category associations)
	MaxUUIDArray = 50
)

var (
	uuidV4Pattern       = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	jsProtocolPattern   = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)on\w+\s*=`)
	tableNumberPattern  = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

// SanitizeString trims the input, strips angle brackets, the javascript:
// protocol, inline event handlers and NUL bytes, and caps the length.
// Returns false when nothing useful remains.
func SanitizeString(input string, maxLength int) (string, bool) {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = jsProtocolPattern.ReplaceAllString(s, "")
	s = eventHandlerPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\x00", "")
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// ValidatePrice accepts finite values in [0, MaxPrice] and rounds to two
// decimal places.
func ValidatePrice(price float64) (float64, bool) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	if price < 0 || price > MaxPrice {
		return 0, false
	}
	return math.Round(price*100) / 100, true
}

// ValidateQuantity accepts whole quantities in [1, MaxQuantity]. The input is
// a float64 so that JSON numbers like 2.5 are rejected rather than truncated.
func ValidateQuantity(quantity float64) (int, bool) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return 0, false
	}
	if quantity != math.Trunc(quantity) {
		return 0, false
	}
	q := int(quantity)
	if q < 1 || q > MaxQuantity {
		return 0, false
	}
	return q, true
}

// ValidateUUID accepts only RFC 4122 v4 shaped identifiers
func ValidateUUID(id string) (string, bool) {
	trimmed := strings.TrimSpace(id)
	if !uuidV4Pattern.MatchString(strings.ToLower(trimmed)) {
		return "", false
	}
	return trimmed, true
}

// ValidateOrderStatus normalizes and checks membership in the fixed status set
func ValidateOrderStatus(status string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	for _, s := range ValidOrderStatuses {
		if normalized == s {
			return normalized, true
		}
	}
	return "", false
}

// ValidateTableNumber accepts alphanumeric table labels (hyphen allowed), at
// most 20 characters.
func ValidateTableNumber(tableNumber string) (string, bool) {
	s := strings.TrimSpace(tableNumber)
	if s == "" || len(s) > 20 {
		return "", false
	}
	if !tableNumberPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

// ValidateSortOrder clamps sort positions into [0, MaxSortOrder]; anything
// unusable falls back to 0.
func ValidateSortOrder(sortOrder float64) int {
	if math.IsNaN(sortOrder) || math.IsInf(sortOrder, 0) || sortOrder != math.Trunc(sortOrder) {
		return 0
	}
	n := int(sortOrder)
	if n < 0 {
		return 0
	}
	if n > MaxSortOrder {
		return MaxSortOrder
	}
	return n
}

// ValidateUUIDArray validates every id in the list; a single bad id rejects
// the whole set. Empty lists are valid.
func ValidateUUIDArray(ids []string, maxLength int) ([]string, bool) {
	if maxLength <= 0 {
		maxLength = MaxUUIDArray
	}
	if len(ids) > maxLength {
		return nil, false
	}
	validated := make([]string, 0, len(ids))
	for _, id := range ids {
		valid, ok := ValidateUUID(id)
		if !ok {
			return nil, false
		}
		validated = append(validated, valid)
	}
	return validated, true
}

// ValidateName sanitizes a required name field, at most 200 characters
func ValidateName(name string) (string, bool) {
	return SanitizeString(name, 200)
}

// ValidateDescription sanitizes an optional description, at most 1000 characters
func ValidateDescription(description string) (string, bool) {
	return SanitizeString(description, 1000)
}

// ValidateImageURL sanitizes an image URL and requires an http/https scheme
func ValidateImageURL(url string) (string, bool) {
	s, ok := SanitizeString(url, 500)
	if !ok {
		return "", false
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", false
	}
	return s, true
}
