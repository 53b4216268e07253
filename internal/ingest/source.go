package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Page is one page of alert IDs from the compliance alert API.
type Page struct {
	Status string   `json:"status"`
	Count  int      `json:"count"`
	Total  int      `json:"total"`
	Data   []string `json:"data"`
}

// Source abstracts where alerts come from: the real HTTP API or the
// deterministic simulator used in development and tests.
type Source interface {
	ListAlertIDs(ctx context.Context, status string, limit, offset int) (Page, error)
	// GetAlertDetail returns the raw payload for one alert, or nil if the
	// alert no longer exists upstream.
	GetAlertDetail(ctx context.Context, alertID string) (map[string]interface{}, error)
}

// HTTPSource talks to the real alert API with bounded retries and
// exponential backoff on 429/5xx responses.
type HTTPSource struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	backoff    time.Duration
}

func NewHTTPSource(baseURL string, timeout time.Duration, maxRetries int, backoff time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

func (s *HTTPSource) ListAlertIDs(ctx context.Context, status string, limit, offset int) (Page, error) {
	params := url.Values{}
	params.Set("status", status)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var page Page
	if err := s.getJSON(ctx, "/compliance_alerts?"+params.Encode(), &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

func (s *HTTPSource) GetAlertDetail(ctx context.Context, alertID string) (map[string]interface{}, error) {
	var payload map[string]interface{}
	err := s.getJSON(ctx, "/compliance_alerts/"+url.PathEscape(alertID), &payload)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

var errNotFound = fmt.Errorf("not found")

// getJSON issues a GET and decodes the body, retrying transport errors and
// retryable statuses with exponential backoff. Respects ctx cancellation
// between attempts.
func (s *HTTPSource) getJSON(ctx context.Context, path string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			wait := s.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to decode response for %s: %w", path, err)
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return errNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("upstream returned %d for %s", resp.StatusCode, path)
			continue
		default:
			resp.Body.Close()
			return fmt.Errorf("upstream returned %d for %s", resp.StatusCode, path)
		}
	}
	return fmt.Errorf("giving up on %s after %d attempts: %w", path, s.maxRetries+1, lastErr)
}
