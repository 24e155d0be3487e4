package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/scout/internal/adapters/http/api"
	"github.com/okian/scout/internal/adapters/http/site"
	"github.com/okian/scout/internal/adapters/http/swagger"
	"github.com/okian/scout/internal/adapters/mcp"
	"github.com/okian/scout/internal/adapters/snapshot"
	"github.com/okian/scout/internal/adapters/warmup"
	app "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// version is reported to MCP clients.
const version = "0.1.0"

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
	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// A snapshot that cannot be loaded ends the session.
	svc, err := app.FromConfig(ctx, cfg, app.WithLogger(loggerInstance.Named("service")))
	if err != nil {
		var dle *snapshot.DataLoadError
		if errors.As(err, &dle) {
			loggerInstance.Error(ctx, "snapshot could not be loaded", logger.String("source", dle.Source), logger.Error(dle.Err))
		}
		os.Stderr.WriteString("failed to start: the athlete snapshot could not be loaded\n" + err.Error() + "\n")
		os.Exit(1)
	}

	go startSystemMetricsUpdater(ctx)
	go warm(ctx, cfg, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.Bool("mcp", cfg.MCPEnabled))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newRouter registers the business API, the dashboard, the API docs and,
// when enabled, the MCP endpoint.
func newRouter(ctx context.Context, cfg *config.Config, svc *app.Service) *mux.Router {
	router := mux.NewRouter()
	if cfg.MCPEnabled {
		router.Handle(cfg.MCPPath, mcp.Handler(mcp.NewServer(svc, version)))
	}
	api.NewServer(svc).Register(router)
	site.Register(ctx, router)
	swagger.Register(ctx, router)
	return router
}

// warm fills the result cache with every selectable athlete.
func warm(ctx context.Context, cfg *config.Config, svc *app.Service) {
	if cfg.ResultCacheSize == 0 || cfg.WarmupWorkers == 0 {
		return
	}
	athletes := svc.Athletes(ctx, true)
	names := make([]string, 0, len(athletes))
	for _, a := range athletes {
		names = append(names, a.Name)
	}
	warmup.NewPool(svc, warmup.WithWorkers(cfg.WarmupWorkers)).Warm(ctx, names)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
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
