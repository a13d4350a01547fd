package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"marketplace-settlement/config"
	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	c := New(config.GatewayConfig{BaseURL: url, APIKey: "gw-key", Timeout: time.Second}, nil, zerolog.Nop())
	c.retries = []time.Duration{time.Millisecond, time.Millisecond}
	return c
}

func newChildOrder() *domain.Order {
	parent := uuid.New()
	return &domain.Order{ID: uuid.New(), ParentOrderID: &parent, Currency: "NGN", Total: 4500}
}

func TestCapture_Success(t *testing.T) {
	order := newChildOrder()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders/"+order.ID.String()+"/capture", r.URL.Path)
		assert.Equal(t, order.ID.String(), r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "Bearer gw-key", r.Header.Get("Authorization"))

		var req CaptureRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(4500), req.Amount)
		assert.Equal(t, "NGN", req.Currency)
		assert.Equal(t, "stripe", req.Provider)
		assert.Equal(t, order.ParentOrderID.String(), req.ParentOrderID)

		_, _ = w.Write([]byte(`{"id":"cap_1","status":"captured","amount":4400}`))
	}))
	defer srv.Close()

	amount, err := newTestClient(srv.URL).Capture(context.Background(), order, "stripe")
	require.NoError(t, err)
	assert.Equal(t, int64(4400), amount, "settled amount comes from the gateway")
}

func TestCapture_DefaultProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CaptureRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.DefaultProvider, req.Provider)
		_, _ = w.Write([]byte(`{"status":"captured","amount":4500}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Capture(context.Background(), newChildOrder(), "")
	require.NoError(t, err)
}

func TestCapture_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"captured","amount":4500}`))
	}))
	defer srv.Close()

	amount, err := newTestClient(srv.URL).Capture(context.Background(), newChildOrder(), "manual")
	require.NoError(t, err)
	assert.Equal(t, int64(4500), amount)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCapture_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`payment already refunded`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Capture(context.Background(), newChildOrder(), "manual")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, "payment already refunded", statusErr.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCapture_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Capture(context.Background(), newChildOrder(), "manual")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, int32(3), calls.Load())
}

type doFunc func(req *http.Request) (*http.Response, error)

func (f doFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestCapture_ContextCancelledStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	client := New(config.GatewayConfig{BaseURL: "http://gw.invalid"}, doFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		cancel()
		return nil, errors.New("connection reset")
	}), zerolog.Nop())
	client.retries = []time.Duration{time.Hour}

	_, err := client.Capture(ctx, newChildOrder(), "manual")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCapture_MalformedResponse(t *testing.T) {
	client := New(config.GatewayConfig{BaseURL: "http://gw.invalid"}, doFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"amount":`))}, nil
	}), zerolog.Nop())
	client.retries = nil

	_, err := client.Capture(context.Background(), newChildOrder(), "manual")
	assert.ErrorContains(t, err, "decode capture response")
}
