// Package ratesource fetches historical daily exchange rates from an
// openexchangerates-compatible HTTP API.
package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketplace-settlement/config"
	"marketplace-settlement/internal/core/domain"

	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of an error response is read into the error message.
const maxErrorBody = 4 << 10

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.RateSource.
type Client struct {
	baseURL    string
	appID      string
	httpClient HTTPClient
	log        zerolog.Logger
}

// historicalResponse is the body of GET /historical/{date}.json.
type historicalResponse struct {
	Base        string             `json:"base"`
	Rates       map[string]float64 `json:"rates"`
	Error       bool               `json:"error"`
	Message     string             `json:"message"`
	Description string             `json:"description"`
}

// New creates a rate source client. A nil httpClient uses a default client
// bounded by the configured fetch timeout.
func New(cfg config.RatesConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.FetchTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.SourceURL, "/"),
		appID:      cfg.AppID,
		httpClient: httpClient,
		log:        log,
	}
}

// Historical returns the rates published for day, quoted against base.
// An empty symbols list asks the source for every currency it knows.
func (c *Client) Historical(ctx context.Context, day time.Time, base string, symbols []string) (domain.RateTable, error) {
	date := day.UTC().Format(domain.DateLayout)

	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("base", strings.ToUpper(base))
	if len(symbols) > 0 {
		q.Set("symbols", strings.ToUpper(strings.Join(symbols, ",")))
	}
	endpoint := fmt.Sprintf("%s/historical/%s.json?%s", c.baseURL, date, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates for %s: %w", date, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr historicalResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Description != "" {
			return nil, fmt.Errorf("fetch rates for %s: status %d: %s", date, resp.StatusCode, apiErr.Description)
		}
		return nil, fmt.Errorf("fetch rates for %s: status %d", date, resp.StatusCode)
	}

	var out historicalResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rates for %s: %w", date, err)
	}
	if out.Error {
		return nil, fmt.Errorf("fetch rates for %s: %s", date, out.Description)
	}

	table := make(domain.RateTable, len(out.Rates))
	for code, rate := range out.Rates {
		if rate <= 0 {
			c.log.Warn().Str("date", date).Str("currency", code).Float64("rate", rate).Msg("ignoring non-positive rate")
			continue
		}
		table[strings.ToUpper(code)] = rate
	}

	c.log.Debug().Str("date", date).Str("base", base).Int("currencies", len(table)).Msg("rates fetched")
	return table, nil
}
