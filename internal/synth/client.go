package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/scout/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// getJSON performs a GET request and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("request %s failed with status %d: %s", path, resp.StatusCode, body)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// health checks GET /healthz.
func (c *HTTPClient) health(ctx context.Context) error {
	return c.getJSON(ctx, "/healthz", nil)
}

// athletes lists the selectable athletes.
func (c *HTTPClient) athletes(ctx context.Context) ([]Athlete, error) {
	var resp struct {
		Athletes []Athlete `json:"athletes"`
	}
	if err := c.getJSON(ctx, "/athletes", &resp); err != nil {
		return nil, err
	}
	return resp.Athletes, nil
}

// recommend requests the recommendations for name.
func (c *HTTPClient) recommend(ctx context.Context, name, priority string) (Recommendation, error) {
	path := "/athletes/" + url.PathEscape(name) + "/recommendations"
	if priority != "" {
		path += "?priority=" + url.QueryEscape(priority)
	}
	var rec Recommendation
	err := c.getJSON(ctx, path, &rec)
	return rec, err
}
