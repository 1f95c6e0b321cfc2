// Package catfact fetches a single fact from the public cat fact API.
package catfact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/okian/catprofile/pkg/logger"
	"github.com/okian/catprofile/pkg/metrics"
)

// Defaults for the public provider.
const (
	DefaultURL     = "https://catfact.ninja/fact"
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 64 << 10
)

// Fact is one provider fact. Length falls back to the text length when the
// provider omits it or sends something other than a number.
type Fact struct {
	Text   string
	Length int
}

// factBody is the provider wire shape. Only fact is required; length is kept
// raw so an unexpected type never rejects a usable fact.
type factBody struct {
	Fact   string          `json:"fact"`
	Length json.RawMessage `json:"length"`
}

func (b factBody) toFact() Fact {
	f := Fact{Text: b.Fact, Length: len(b.Fact)}
	var n json.Number
	if err := json.Unmarshal(b.Length, &n); err == nil {
		if v, err := n.Float64(); err == nil && v >= 0 {
			f.Length = int(v)
		}
	}
	return f
}

// Fetcher returns one fact per call. Implementations never substitute a
// fallback; callers decide what to do with the error.
type Fetcher interface {
	Fetch(ctx context.Context) (Fact, error)
}

// Client is the HTTP implementation of Fetcher.
type Client struct {
	httpClient *http.Client
	url        string
	timeout    time.Duration
	logger     logger.Logger
}

var _ Fetcher = (*Client)(nil)

// New creates a Client with the public endpoint and a 5s budget.
func New(opts ...Option) *Client {
	c := &Client{
		url:     DefaultURL,
		timeout: DefaultTimeout,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Fetch performs exactly one GET against the provider.
func (c *Client) Fetch(ctx context.Context) (Fact, error) {
	const op = "catfact.fetch"
	start := time.Now()

	fact, result, err := c.fetch(ctx, op)

	metrics.RecordFactFetch(result, float64(time.Since(start).Milliseconds()))
	if err != nil {
		c.logger.Debug(ctx, "fact fetch failed",
			logger.String("url", c.url),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		return Fact{}, err
	}
	return fact, nil
}

func (c *Client) fetch(ctx context.Context, op string) (Fact, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return Fact{}, metrics.FactResultRequestErr, wrapKind(op, ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return Fact{}, metrics.FactResultRequestErr, wrapKind(op, ErrTimeout, err)
		}
		return Fact{}, metrics.FactResultRequestErr, wrapKind(op, ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Fact{}, metrics.FactResultStatusErr, wrapKind(op, ErrStatus, fmt.Errorf("status %d", resp.StatusCode))
	}

	var body factBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		if isTimeout(ctx, err) {
			return Fact{}, metrics.FactResultRequestErr, wrapKind(op, ErrTimeout, err)
		}
		return Fact{}, metrics.FactResultDecodeErr, wrapKind(op, ErrDecode, err)
	}
	if body.Fact == "" {
		return Fact{}, metrics.FactResultMissingFact, wrapKind(op, ErrMissingFact, nil)
	}
	return body.toFact(), metrics.FactResultSuccess, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
