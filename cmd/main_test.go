package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/catprofile/internal/adapters/catfact"
	app "github.com/okian/catprofile/internal/app"
	"github.com/okian/catprofile/internal/config"
	"github.com/okian/catprofile/internal/docs"
	"github.com/okian/catprofile/internal/domain/profile"
	"github.com/okian/catprofile/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type downFetcher struct{}

func (downFetcher) Fetch(context.Context) (catfact.Fact, error) {
	return catfact.Fact{}, catfact.ErrRequest
}

func TestMainApplicationRoutes(t *testing.T) {
	convey.Convey("Given the fully wired handler", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		_, err := docs.Generate(docs.InfoFromConfig(cfg))
		convey.So(err, convey.ShouldBeNil)

		svc := app.New(app.WithConfig(cfg), app.WithFetcher(downFetcher{}))
		h := newHandler(ctx, svc, logger.Nop())

		for _, path := range []string{"/", "/me", "/health", "/api-docs", "/swagger.json", "/metrics"} {
			convey.Convey("Then GET "+path+" succeeds with the CORS header", func() {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rec.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "*")
			})
		}

		convey.Convey("Then /me falls back when the upstream is down", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

			var body profile.Response
			convey.So(json.Unmarshal(rec.Body.Bytes(), &body), convey.ShouldBeNil)
			convey.So(body.Fact, convey.ShouldEqual, profile.FallbackFact)
		})

		convey.Convey("Then unknown paths return 404 with the CORS header", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
			convey.So(rec.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "*")
		})
	})
}

func TestNewService(t *testing.T) {
	convey.Convey("Given a loaded configuration", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then the service carries it", func() {
			svc := newService(cfg, logger.Nop())
			convey.So(svc, convey.ShouldNotBeNil)
			convey.So(svc.Config(), convey.ShouldPointTo, cfg)
		})
	})
}

func TestRunWithInvalidPort(t *testing.T) {
	convey.Convey("Given a non-numeric PORT", t, func() {
		t.Setenv("PORT", "abc")
		t.Setenv("DOTENV_PATH", "does-not-exist.env")

		convey.Convey("Then run fails before listening", func() {
			err := run(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load config")
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			svc := app.New(app.WithFetcher(downFetcher{}))

			convey.So(func() { startSystemMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("When system metrics are updated", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
