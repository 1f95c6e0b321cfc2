package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/catprofile/internal/adapters/catfact"
	"github.com/okian/catprofile/internal/adapters/http/api"
	"github.com/okian/catprofile/internal/adapters/http/site"
	"github.com/okian/catprofile/internal/adapters/http/swagger"
	app "github.com/okian/catprofile/internal/app"
	"github.com/okian/catprofile/internal/config"
	"github.com/okian/catprofile/internal/docs"
	"github.com/okian/catprofile/pkg/logger"
	"github.com/okian/catprofile/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// run loads configuration, serves HTTP until ctx is cancelled and then shuts
// the server down gracefully.
func run(ctx context.Context) error {
	log := logger.Get()

	// defaults -> .env -> optional file -> env
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if _, err := docs.Generate(docs.InfoFromConfig(cfg)); err != nil {
		return fmt.Errorf("failed to generate api docs: %w", err)
	}

	svc := newService(cfg, log)

	go startSystemMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr()),
			logger.String("environment", cfg.Environment),
			logger.String("docs", cfg.ServerURL()+"/api-docs"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService wires the fact client and the profile service from cfg.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	facts := catfact.New(
		catfact.WithURL(cfg.FactURL),
		catfact.WithTimeout(cfg.FactTimeout()),
		catfact.WithLogger(log.Named("catfact")),
	)
	return app.New(
		app.WithConfig(cfg),
		app.WithFetcher(facts),
		app.WithLogger(log.Named("service")),
	)
}

// newHandler registers every route and wraps the mux with the shared middleware.
func newHandler(ctx context.Context, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)
	site.Register(ctx, mux, svc)

	apiServer := api.NewServer(svc, api.WithLogger(log.Named("http")))
	apiServer.Register(ctx, mux)

	return apiServer.Handler(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
			metrics.UpdateUptime(svc.Uptime().Seconds())
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
