// Package apiclient is the HTTP client the café front-ends use: menu fetch
// with bounded retries, order calls, and an interval poller that replaces the
// web client's hand-rolled refresh loops with context-based cancellation.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/danuarta/cafe-order-api/internal/services"
)

const (
	// DefaultTimeout bounds every request
	DefaultTimeout = 10 * time.Second
	// DefaultRetries is how many extra attempts the menu fetch gets
	DefaultRetries = 2
	// DefaultRetryBackoff is the fixed delay between menu fetch attempts
	DefaultRetryBackoff = time.Second
)

// Client talks to the café order API
type Client struct {
	BaseURL      string
	HTTPClient   *http.Client
	Retries      int
	RetryBackoff time.Duration
}

// New creates a client with the default timeout and retry policy
func New(baseURL string) *Client {
	return &Client{
		BaseURL:      baseURL,
		HTTPClient:   &http.Client{Timeout: DefaultTimeout},
		Retries:      DefaultRetries,
		RetryBackoff: DefaultRetryBackoff,
	}
}

// FetchMenu loads the menu. Transient failures are retried up to Retries
// extra times with a fixed backoff; HTTP error statuses are not retried.
func (c *Client) FetchMenu(ctx context.Context) (*services.Menu, error) {
	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.RetryBackoff):
			}
		}

		var menu services.Menu
		err := c.doJSON(ctx, http.MethodGet, "/api/menu", nil, &menu)
		if err == nil {
			return &menu, nil
		}
		lastErr = err
		if _, transient := err.(*transportError); !transient {
			return nil, err
		}
	}
	return nil, lastErr
}

// CreateOrder submits a new order
func (c *Client) CreateOrder(ctx context.Context, req services.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders lists orders, optionally filtered by status
func (c *Client) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	path := "/api/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus applies a status transition to an order
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, req services.UpdateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodPatch, "/api/orders/"+orderID, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// RejectOrder soft-rejects an order
func (c *Client) RejectOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodDelete, "/api/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// transportError marks network-level failures, the only kind worth retrying
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// APIError is a non-2xx response carrying the envelope's error message
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// doJSON performs a request and decodes the envelope's data field into out
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}
	if out != nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}
