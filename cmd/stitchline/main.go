package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stitchline-erp/stitchline/internal/app"
	"github.com/stitchline-erp/stitchline/internal/catalog"
	"github.com/stitchline-erp/stitchline/internal/category"
	"github.com/stitchline-erp/stitchline/internal/dashboard"
	"github.com/stitchline-erp/stitchline/internal/masterdata"
	"github.com/stitchline-erp/stitchline/internal/observability"
	"github.com/stitchline-erp/stitchline/internal/platform/cache"
	"github.com/stitchline-erp/stitchline/internal/platform/db"
	"github.com/stitchline-erp/stitchline/internal/procurement"
	"github.com/stitchline-erp/stitchline/internal/sequence"
	"github.com/stitchline-erp/stitchline/internal/shared"
	"github.com/stitchline-erp/stitchline/internal/stock"
	"github.com/stitchline-erp/stitchline/internal/uom"
	"github.com/stitchline-erp/stitchline/internal/users"
	"github.com/stitchline-erp/stitchline/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Redis is optional; the dashboard cache degrades to direct reads.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	idempotencyStore := shared.NewIdempotencyStore(pool)

	uomRepo := uom.NewRepository(pool)
	uomService := uom.NewService(uomRepo)
	uomHandler := uom.NewHandler(logger, uomService)

	sequenceRepo := sequence.NewRepository(pool)
	sequenceService := sequence.NewService(sequenceRepo)
	sequenceHandler := sequence.NewHandler(logger, sequenceService)

	categoryRepo := category.NewRepository(pool)
	categoryService := category.NewService(categoryRepo)
	categoryHandler := category.NewHandler(logger, categoryService)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo, categoryService, sequenceService)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	masterdataRepo := masterdata.NewRepository(pool)
	masterdataService := masterdata.NewService(masterdataRepo)
	masterdataHandler := masterdata.NewHandler(logger, masterdataService)

	stockRepo := stock.NewRepository(pool)
	stockService := stock.NewService(stockRepo, sequenceService, uomService, masterdataService, auditLogger, idempotencyStore)
	stockHandler := stock.NewHandler(logger, stockService)

	procurementRepo := procurement.NewRepository(pool)
	procurementService := procurement.NewService(procurementRepo, sequenceService, auditLogger)
	procurementHandler := procurement.NewHandler(logger, procurementService)

	userRepo := users.NewRepository(pool)
	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(logger, userService)

	dashboardRepo := dashboard.NewRepository(pool)
	dashboardService := dashboard.NewService(dashboardRepo, redisClient, cfg.DashboardCacheTTL)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Config:             cfg,
		Metrics:            metrics,
		UOMHandler:         uomHandler,
		SequenceHandler:    sequenceHandler,
		CategoryHandler:    categoryHandler,
		CatalogHandler:     catalogHandler,
		MasterdataHandler:  masterdataHandler,
		StockHandler:       stockHandler,
		ProcurementHandler: procurementHandler,
		UserHandler:        userHandler,
		DashboardHandler:   dashboardHandler,
		JobHandler:         jobHandler,
		Middleware: app.MiddlewareStack(app.MiddlewareConfig{
			Logger:  logger,
			Config:  cfg,
			Metrics: metrics,
		}),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
