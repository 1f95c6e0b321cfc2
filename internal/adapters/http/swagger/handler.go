// Package swagger serves the interactive API docs and the OpenAPI document.
package swagger

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/catprofile/internal/docs"
	"github.com/okian/catprofile/pkg/logger"
)

// Error constants.
var (
	ErrServe = errors.New("swagger serve failed")
)

// readDoc returns the published OpenAPI document.
var readDoc = docs.Read //nolint:gochecknoglobals // replaced in tests

// Register attaches Swagger UI and the OpenAPI document routes to mux.
//
//	GET /api-docs      -> Swagger UI HTML
//	GET /swagger.json  -> OpenAPI 3.0.0 document
func Register(ctx context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	log := logger.Named("swagger")

	mux.HandleFunc("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	mux.HandleFunc("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		doc, err := readDoc()
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrServe, err)
			log.Error(r.Context(), "openapi document unavailable", logger.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(doc))
	})

	log.Debug(ctx, "swagger routes registered")
}

// Swagger UI from the public CDN, pointed at /swagger.json.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Profile API with Cat Facts</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({ url: '/swagger.json', dom_id: '#swagger-ui' });
    </script>
  </body>
</html>`
