package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/selim/opphub/internal/models"
)

// ErrNotFound is returned when the backend answers 404 for a record lookup.
var ErrNotFound = errors.New("record not found")

// Client talks to the catalog REST backend. The backend is trusted to apply
// the Query filters it understands; everything else is refined locally.
type Client struct {
	BaseURL    string
	HTTP       *http.Client
	MaxRetries int
}

// NewClient builds a client with sane transport defaults and a hard
// per-request timeout so a dead backend cannot wedge a refresh forever.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTP:       &http.Client{Timeout: timeout, Transport: transport},
		MaxRetries: 3,
	}
}

// Values renders the query with the backend's parameter names. Zero-valued
// filters are omitted entirely rather than sent as empty params.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Country != "" {
		v.Set("pays", q.Country)
	}
	if q.Level != "" {
		v.Set("niveau", q.Level)
	}
	if q.Format != "" {
		v.Set("format", q.Format)
	}
	if q.Price != "" {
		v.Set("price", q.Price)
	}
	if q.ClosingSoon {
		v.Set("closingSoon", "true")
	}
	return v
}

// List fetches every record of one catalog family matching the query.
func (c *Client) List(ctx context.Context, kind models.Kind, q Query) ([]Record, error) {
	u := c.BaseURL + endpointPath(kind)
	if params := q.Values().Encode(); params != "" {
		u += "?" + params
	}

	var records []Record
	if err := c.getJSON(ctx, u, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Get fetches a single record by id from the unified detail endpoint.
func (c *Client) Get(ctx context.Context, id string) (*Record, error) {
	u := c.BaseURL + "/api/opportunities/" + url.PathEscape(id)

	var record Record
	if err := c.getJSON(ctx, u, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// getJSON performs a GET with retries on transient failures (timeouts, 429
// and 5xx responses) using exponential backoff with jitter.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	var lastErr error

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			jitter := time.Duration(rand.Intn(100)) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			if shouldRetry(err, 0) {
				continue
			}
			return fmt.Errorf("failed to execute request: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound
		case shouldRetry(nil, resp.StatusCode):
			resp.Body.Close()
			lastErr = fmt.Errorf("status code %d", resp.StatusCode)
			continue
		default:
			resp.Body.Close()
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// shouldRetry determines if an error or status code should trigger a retry.
func shouldRetry(err error, statusCode int) bool {
	if err != nil {
		if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
			return true
		}
		return false
	}

	retryStatusCodes := map[int]bool{
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
		http.StatusGatewayTimeout:      true,
	}
	return retryStatusCodes[statusCode]
}
