// Package gateway is the HTTP client for the payment gateway that captures
// marketplace orders.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketplace-settlement/config"
	"marketplace-settlement/internal/core/domain"

	"github.com/rs/zerolog"
)

// defaultRetryIntervals are the waits between capture attempts on transient failures.
var defaultRetryIntervals = []time.Duration{
	500 * time.Millisecond,
	2 * time.Second,
	5 * time.Second,
}

const maxErrorBody = 4 << 10

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed on retry.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// CaptureRequest is the body of POST /v1/orders/{id}/capture.
type CaptureRequest struct {
	OrderID       string `json:"order_id"`
	ParentOrderID string `json:"parent_order_id,omitempty"`
	Provider      string `json:"provider"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

// CaptureResponse is the gateway's answer to a capture.
type CaptureResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// Client implements ports.PaymentGateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
	retries    []time.Duration
	log        zerolog.Logger
}

// New creates a gateway client. A nil httpClient uses a default client bounded
// by the configured timeout.
func New(cfg config.GatewayConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		retries:    defaultRetryIntervals,
		log:        log,
	}
}

// Capture settles the order's payment and returns the captured amount in
// minor units. The order id is sent as the idempotency key, so retried
// captures of the same order settle once.
func (c *Client) Capture(ctx context.Context, order *domain.Order, provider string) (int64, error) {
	if provider == "" {
		provider = domain.DefaultProvider
	}
	body := CaptureRequest{
		OrderID:  order.ID.String(),
		Provider: provider,
		Amount:   order.Total,
		Currency: order.Currency,
	}
	if order.ParentOrderID != nil {
		body.ParentOrderID = order.ParentOrderID.String()
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encode capture request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= len(c.retries); attempt++ {
		if attempt > 0 {
			if err := wait(ctx, c.retries[attempt-1]); err != nil {
				return 0, fmt.Errorf("capture order %s: %w", order.ID, err)
			}
		}

		resp, err := c.capture(ctx, order.ID.String(), payload)
		if err == nil {
			c.log.Info().
				Str("order_id", order.ID.String()).
				Int("attempt", attempt+1).
				Int64("amount", resp.Amount).
				Msg("gateway: order captured")
			return resp.Amount, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		c.log.Warn().Err(err).Str("order_id", order.ID.String()).Int("attempt", attempt+1).Msg("gateway: capture failed, retrying")
	}

	return 0, fmt.Errorf("capture order %s: %w", order.ID, lastErr)
}

func (c *Client) capture(ctx context.Context, orderID string, payload []byte) (*CaptureResponse, error) {
	url := fmt.Sprintf("%s/v1/orders/%s/capture", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", orderID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out CaptureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode capture response: %w", err)
	}
	if out.Amount < 0 {
		return nil, fmt.Errorf("gateway reported negative captured amount %d", out.Amount)
	}
	return &out, nil
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
