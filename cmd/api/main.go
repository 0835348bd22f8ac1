package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/agendaluz/studio-agenda/internal/api/router"
	"github.com/agendaluz/studio-agenda/internal/auth"
	"github.com/agendaluz/studio-agenda/internal/clients"
	appconfig "github.com/agendaluz/studio-agenda/internal/config"
	"github.com/agendaluz/studio-agenda/internal/expenses"
	httpmiddleware "github.com/agendaluz/studio-agenda/internal/http/middleware"
	"github.com/agendaluz/studio-agenda/internal/kvstore"
	"github.com/agendaluz/studio-agenda/internal/live"
	"github.com/agendaluz/studio-agenda/internal/observability/metrics"
	"github.com/agendaluz/studio-agenda/internal/reporting"
	"github.com/agendaluz/studio-agenda/internal/schedule"
	"github.com/agendaluz/studio-agenda/internal/session"
	"github.com/agendaluz/studio-agenda/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting studio-agenda API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Document store client and optional redis snapshot cache
	store := kvstore.New(cfg.StoreBaseURL, cfg.StoreAuthToken, cfg.StoreTimeout, logger)
	var cache session.Cache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		cache = kvstore.NewSnapshotCache(redis.NewClient(opts), cfg.SnapshotTTL)
		logger.Info("snapshot cache enabled", "addr", cfg.RedisAddr)
	}

	// Materialize the studio state
	manager := session.NewManager(store, cache, bookingMetrics, logger)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	manager.Load(loadCtx)
	cancelLoad()

	hub := live.NewHub(logger)

	authService := auth.NewService(manager, cfg.SessionJWTSecret, cfg.SessionTTL, logger)
	scheduleService := schedule.NewService(
		manager.Appointments(),
		manager.Blocks(),
		manager.Catalog(),
		manager,
		hub,
		bookingMetrics,
		logger,
	)

	routerCfg := &router.Config{
		Logger:             logger,
		AuthHandler:        auth.NewHandler(authService, logger),
		AuthService:        authService,
		ScheduleHandler:    schedule.NewHandler(scheduleService, manager, logger),
		ExpensesHandler:    expenses.NewHandler(manager.Expenses(), manager, hub, logger),
		ClientsHandler:     clients.NewHandler(manager.Clients(), manager, logger),
		ReportingHandler:   reporting.NewHandler(manager.Appointments(), manager.Expenses(), manager, logger),
		SessionHandler:     session.NewHandler(manager, logger),
		Hub:                hub,
		LoginThrottle:      httpmiddleware.NewLoginThrottle(10, time.Minute),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Let in-flight writes to the document store finish
	manager.Flush()
	hub.Close()

	logger.Info("server stopped")
}
