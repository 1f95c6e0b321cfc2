package smoke

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/catprofile/internal/domain/profile"
)

// Paths probed by the checks.
const (
	pathRoot    = "/"
	pathProfile = "/me"
	pathHealth  = "/health"
	pathDocs    = "/api-docs"
	pathOpenAPI = "/swagger.json"
	pathMissing = "/smoke-check-missing-route"
)

// check is one named verification.
type check struct {
	name string
	run  func(ctx context.Context, c *HTTPClient, cfg *Config) error
}

// checks lists every verification in execution order.
func checks() []check {
	return []check{
		{name: "health", run: checkHealth},
		{name: "uptime_monotonic", run: checkUptimeMonotonic},
		{name: "welcome", run: checkWelcome},
		{name: "profile", run: checkProfile},
		{name: "profile_concurrent", run: checkProfileConcurrent},
		{name: "openapi_document", run: checkOpenAPI},
		{name: "api_docs_page", run: checkDocsPage},
		{name: "unknown_route", run: checkNotFound},
	}
}

func checkHealth(ctx context.Context, c *HTTPClient, _ *Config) error {
	var h profile.Health
	if err := c.getJSON(ctx, pathHealth, http.StatusOK, &h); err != nil {
		return err
	}
	if h.Status != profile.StatusHealthy {
		return fmt.Errorf("%w: status %q", ErrBody, h.Status)
	}
	if h.Uptime < 0 {
		return fmt.Errorf("%w: negative uptime %f", ErrBody, h.Uptime)
	}
	if h.Environment == "" {
		return fmt.Errorf("%w: empty environment", ErrBody)
	}
	return checkTimestamp(h.Timestamp)
}

func checkUptimeMonotonic(ctx context.Context, c *HTTPClient, _ *Config) error {
	var first, second profile.Health
	if err := c.getJSON(ctx, pathHealth, http.StatusOK, &first); err != nil {
		return err
	}
	if err := c.getJSON(ctx, pathHealth, http.StatusOK, &second); err != nil {
		return err
	}
	if second.Uptime < first.Uptime {
		return fmt.Errorf("%w: uptime went from %f to %f", ErrBody, first.Uptime, second.Uptime)
	}
	return nil
}

func checkWelcome(ctx context.Context, c *HTTPClient, _ *Config) error {
	first, err := c.get(ctx, pathRoot)
	if err != nil {
		return err
	}
	second, err := c.get(ctx, pathRoot)
	if err != nil {
		return err
	}
	if first.status != http.StatusOK || second.status != http.StatusOK {
		return fmt.Errorf("%w: GET / got %d and %d", ErrStatus, first.status, second.status)
	}
	if !bytes.Equal(first.body, second.body) {
		return fmt.Errorf("%w: welcome payload changed between requests", ErrBody)
	}

	var w profile.Welcome
	if err := c.getJSON(ctx, pathRoot, http.StatusOK, &w); err != nil {
		return err
	}
	if w.Documentation != "/api-docs" || len(w.Endpoints) == 0 {
		return fmt.Errorf("%w: incomplete welcome payload", ErrBody)
	}
	return nil
}

func checkProfile(ctx context.Context, c *HTTPClient, cfg *Config) error {
	var body map[string]any
	if err := c.getJSON(ctx, pathProfile, http.StatusOK, &body); err != nil {
		return err
	}
	return verifyProfile(body, cfg.ExpectFallback)
}

// verifyProfile checks the always-present fields of a /me body and that the
// note agrees with the configured email.
func verifyProfile(body map[string]any, expectFallback bool) error {
	if body["status"] != profile.StatusSuccess {
		return fmt.Errorf("%w: status %v", ErrBody, body["status"])
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: user is not an object", ErrBody)
	}
	for _, key := range []string{"email", "name", "stack"} {
		if _, ok := user[key]; !ok {
			return fmt.Errorf("%w: user.%s missing", ErrBody, key)
		}
	}
	ts, _ := body["timestamp"].(string)
	if err := checkTimestamp(ts); err != nil {
		return err
	}
	fact, _ := body["fact"].(string)
	if fact == "" {
		return fmt.Errorf("%w: empty fact", ErrBody)
	}
	if expectFallback && fact != profile.FallbackFact {
		return fmt.Errorf("%w: expected fallback fact, got %q", ErrBody, fact)
	}

	wantNote := profile.NoteDefault
	if email, ok := user["email"].(string); ok && email != "" {
		wantNote = profile.NoteLoaded
	}
	if body["note"] != wantNote {
		return fmt.Errorf("%w: note %v, want %q", ErrBody, body["note"], wantNote)
	}
	return nil
}

// checkProfileConcurrent fires cfg.Probes requests at /me across cfg.Workers
// workers; every one must succeed.
func checkProfileConcurrent(ctx context.Context, c *HTTPClient, cfg *Config) error {
	if cfg.Probes == 0 {
		return nil
	}

	jobs := make(chan int, cfg.Workers*2)
	var (
		wg       sync.WaitGroup
		failed   int64
		firstErr error
		once     sync.Once
	)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				var body map[string]any
				err := c.getJSON(ctx, pathProfile, http.StatusOK, &body)
				if err == nil {
					err = verifyProfile(body, cfg.ExpectFallback)
				}
				if err != nil {
					atomic.AddInt64(&failed, 1)
					once.Do(func() { firstErr = err })
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Probes; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	if n := atomic.LoadInt64(&failed); n > 0 {
		return fmt.Errorf("%d of %d requests failed: %w", n, cfg.Probes, firstErr)
	}
	return ctx.Err()
}

func checkOpenAPI(ctx context.Context, c *HTTPClient, _ *Config) error {
	var doc struct {
		OpenAPI string         `json:"openapi"`
		Paths   map[string]any `json:"paths"`
	}
	if err := c.getJSON(ctx, pathOpenAPI, http.StatusOK, &doc); err != nil {
		return err
	}
	if doc.OpenAPI != "3.0.0" {
		return fmt.Errorf("%w: openapi version %q", ErrBody, doc.OpenAPI)
	}
	for _, p := range []string{pathRoot, pathProfile, pathHealth} {
		if _, ok := doc.Paths[p]; !ok {
			return fmt.Errorf("%w: path %s not documented", ErrBody, p)
		}
	}
	return nil
}

func checkDocsPage(ctx context.Context, c *HTTPClient, _ *Config) error {
	r, err := c.get(ctx, pathDocs)
	if err != nil {
		return err
	}
	if r.status != http.StatusOK {
		return fmt.Errorf("%w: GET %s: got %d", ErrStatus, pathDocs, r.status)
	}
	if !strings.HasPrefix(r.header.Get("Content-Type"), "text/html") {
		return fmt.Errorf("%w: content type %q", ErrBody, r.header.Get("Content-Type"))
	}
	return nil
}

func checkNotFound(ctx context.Context, c *HTTPClient, _ *Config) error {
	r, err := c.get(ctx, pathMissing)
	if err != nil {
		return err
	}
	if r.status != http.StatusNotFound {
		return fmt.Errorf("%w: GET %s: got %d, want 404", ErrStatus, pathMissing, r.status)
	}
	return nil
}

func checkTimestamp(ts string) error {
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		return fmt.Errorf("%w: timestamp %q: %w", ErrBody, ts, err)
	}
	return nil
}
