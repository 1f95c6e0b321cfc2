package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	corsHeader  = "Access-Control-Allow-Origin"
	corsAnyHost = "*"
)

// reply is a fully read HTTP response.
type reply struct {
	status int
	header http.Header
	body   []byte
}

// HTTPClient wraps http.Client with a timeout and a base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// get performs a GET and fails when the response lacks the CORS header, so
// every check also covers it.
func (c *HTTPClient) get(ctx context.Context, path string) (*reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrUnreachable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if got := resp.Header.Get(corsHeader); got != corsAnyHost {
		return nil, fmt.Errorf("%w: GET %s returned %q", ErrMissingCORS, path, got)
	}
	return &reply{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// getJSON performs a GET, requires want as status and decodes the body into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, want int, v any) error {
	r, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if r.status != want {
		return fmt.Errorf("%w: GET %s: got %d, want %d", ErrStatus, path, r.status, want)
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrBody, path, err)
	}
	return nil
}
