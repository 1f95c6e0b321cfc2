package catfact_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/catprofile/internal/adapters/catfact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetch_Success(t *testing.T) {
	srv, hits := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fact":"X","length":1}`))
	})

	client := catfact.New(catfact.WithURL(srv.URL))
	fact, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "X", fact.Text)
	assert.Equal(t, 1, fact.Length)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetch_IgnoresLengthShape(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		text   string
		length int
	}{
		{name: "fractional length", body: `{"fact":"X","length":1.5}`, text: "X", length: 1},
		{name: "string length", body: `{"fact":"X","length":"1"}`, text: "X", length: 1},
		{name: "non-numeric string length", body: `{"fact":"XY","length":"long"}`, text: "XY", length: 2},
		{name: "object length", body: `{"fact":"XY","length":{"n":1}}`, text: "XY", length: 2},
		{name: "null length", body: `{"fact":"XY","length":null}`, text: "XY", length: 2},
		{name: "missing length", body: `{"fact":"XY"}`, text: "XY", length: 2},
		{name: "extra fields", body: `{"fact":"XY","length":2,"source":"vet"}`, text: "XY", length: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			fact, err := catfact.New(catfact.WithURL(srv.URL)).Fetch(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.text, fact.Text)
			assert.Equal(t, tt.length, fact.Length)
		})
	}
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    error
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			kind: catfact.ErrStatus,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			kind: catfact.ErrDecode,
		},
		{
			name: "wrong field type",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"fact":42}`))
			},
			kind: catfact.ErrDecode,
		},
		{
			name: "missing fact",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"length":3}`))
			},
			kind: catfact.ErrMissingFact,
		},
		{
			name: "null fact",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"fact":null}`))
			},
			kind: catfact.ErrMissingFact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := newProvider(t, tt.handler)

			fact, err := catfact.New(catfact.WithURL(srv.URL)).Fetch(context.Background())

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			assert.Empty(t, fact.Text)
			assert.Equal(t, int32(1), hits.Load(), "exactly one attempt")

			var fetchErr *catfact.Error
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, "catfact.fetch", fetchErr.Op)
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv, hits := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := catfact.New(catfact.WithURL(srv.URL), catfact.WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := client.Fetch(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, catfact.ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := catfact.New(catfact.WithURL(url)).Fetch(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, catfact.ErrRequest)
}

func TestFetch_CancelledContext(t *testing.T) {
	srv, _ := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"fact":"late"}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := catfact.New(catfact.WithURL(srv.URL)).Fetch(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_InvalidURL(t *testing.T) {
	_, err := catfact.New(catfact.WithURL("://bad")).Fetch(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, catfact.ErrRequest)
}

func TestOptions_IgnoreZeroValues(t *testing.T) {
	srv, _ := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"fact":"kept"}`))
	})

	client := catfact.New(
		catfact.WithURL(srv.URL),
		catfact.WithURL(""),
		catfact.WithTimeout(0),
		catfact.WithHTTPClient(nil),
		catfact.WithLogger(nil),
	)
	fact, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "kept", fact.Text)
}

func TestError_Message(t *testing.T) {
	err := &catfact.Error{Op: "catfact.fetch", Kind: catfact.ErrMissingFact}
	assert.Equal(t, "catfact.fetch: fact missing from response", err.Error())

	wrapped := &catfact.Error{Op: "catfact.fetch", Kind: catfact.ErrStatus, Err: errors.New("status 500")}
	assert.Equal(t, "catfact.fetch: unexpected fact provider status: status 500", wrapped.Error())
}
