package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mcpserver/internal/config"
	"mcpserver/internal/db"
	"mcpserver/internal/handlers"
	"mcpserver/internal/logger"
	"mcpserver/internal/metrics"
	"mcpserver/internal/router"
	"mcpserver/internal/services"

	"github.com/gin-gonic/gin"
)

// HTTP server timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mcpserver:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	gdb, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Warn(ctx, "closing database", logger.Error(err))
		}
	}()
	log.Info(ctx, "database connection established", logger.String("driver", cfg.DBDriver))

	if err := db.Migrate(gdb); err != nil {
		return err
	}
	log.Info(ctx, "database migration completed")

	m := metrics.NewManager(metrics.WithRuntimeMetrics())

	var store services.NodeStore = services.NewInstrumentedNodeStore(services.NewGormNodeStore(gdb), m)
	if cfg.NodeCacheSize > 0 {
		store, err = services.NewCachedNodeStore(store, cfg.NodeCacheSize, cfg.NodeCacheTTL, m)
		if err != nil {
			return err
		}
	}

	gin.SetMode(cfg.GinMode)
	r := router.New(router.Deps{
		Store:   store,
		Ping:    func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Metrics: m,
		Logger:  log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting",
			logger.String("service", handlers.ServiceName),
			logger.String("version", handlers.ServiceVersion),
			logger.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(ctx, "server stopped")
	return nil
}
