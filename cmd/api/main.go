package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voip-metrics-service/internal/cache"
	"voip-metrics-service/internal/config"
	"voip-metrics-service/internal/health"
	"voip-metrics-service/internal/logger"
	"voip-metrics-service/internal/observability"
	"voip-metrics-service/internal/ratelimit"
	"voip-metrics-service/internal/resilience"

	jobsHttp "voip-metrics-service/internal/jobs/adapters/http/fiber"
	jobsDomain "voip-metrics-service/internal/jobs/core/domain"
	jobsUsecase "voip-metrics-service/internal/jobs/core/usecase"

	metricsHttp "voip-metrics-service/internal/metrics/adapters/http/fiber"
	metricsRepoPg "voip-metrics-service/internal/metrics/adapters/postgres"
	"voip-metrics-service/internal/metrics/adapters/resilient"
	metricsDomain "voip-metrics-service/internal/metrics/core/domain"
	metricsUsecase "voip-metrics-service/internal/metrics/core/usecase"

	recordsHttp "voip-metrics-service/internal/records/adapters/http/fiber"
	recordsRepoPg "voip-metrics-service/internal/records/adapters/postgres"
	recordsUsecase "voip-metrics-service/internal/records/core/usecase"

	stateHttp "voip-metrics-service/internal/sharedstate/adapters/http/fiber"
	stateRepoPg "voip-metrics-service/internal/sharedstate/adapters/postgres"
	stateUsecase "voip-metrics-service/internal/sharedstate/core/usecase"

	"github.com/alitto/pond/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "voip-metrics-service/docs"
)

// @title VoIP Metrics Service
// @version 1.0
// @description Day-over-day CDR traffic reports, raw row paging and report jobs.
// @BasePath /
func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, "info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogLevel)
	clock := clockwork.NewRealClock()

	// DB connection
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		// the breaker and readiness probe take over from here
		log.Warn("postgres not reachable at startup", "error", err)
	}
	cancelPing()

	// Resilience
	breakers := resilience.NewRegistry(resilience.BreakerConfig{
		FailureThreshold: cfg.BreakerFailureThreshold,
		RecoveryTimeout:  cfg.BreakerRecoveryTimeout,
		SuccessThreshold: cfg.BreakerSuccessThreshold,
		Logger:           log,
		OnStateChange:    observability.ObserveBreaker,
		OnReject:         observability.ObserveBreakerReject,
	})

	// Caches
	reportCache := cache.New[*metricsDomain.Report]("report", cfg.ReportCacheTTL, 1000, observability.ObserveCache)
	pageCache := cache.New[*metricsDomain.RowPage]("page", cfg.PageCacheTTL, 1000, observability.ObserveCache)
	jobStore := cache.New[*jobsDomain.Job]("jobs", cfg.JobResultTTL, 0, nil)
	for _, c := range []interface{ Start() }{reportCache, pageCache, jobStore} {
		c.Start()
	}

	// Repositories
	metricsRepository := metricsRepoPg.NewRowRepository(metricsRepoPg.NewSQLDB(db), cfg.SourceTable)
	recordRepository := recordsRepoPg.NewRecordRepository(recordsRepoPg.NewSQLDB(db))
	stateRepository := stateRepoPg.NewStateRepository(stateRepoPg.NewSQLDB(db))

	rowReader := resilient.NewReader(metricsRepository, resilient.Options{
		Breaker: breakers.Get("postgres"),
		Retry: resilience.RetryPolicy{
			MaxRetries: cfg.RetryMax,
			BaseDelay:  cfg.RetryBaseDelay,
			MaxDelay:   cfg.RetryMaxDelay,
			Logger:     log,
		},
		Timeout: cfg.QueryTimeout,
	})

	// Usecases
	fetchPool := pond.NewResultPool[[]metricsDomain.RawRow](cfg.FetchWorkers)
	getMetricsUC := metricsUsecase.NewGetMetricsUseCase(rowReader, metricsUsecase.ReportConfig{
		Pool:   fetchPool,
		Cache:  reportCache,
		Logger: log,
		OnRowsSkipped: func(n int) {
			observability.RowsSkipped.Add(float64(n))
		},
	})
	listRowsUC := metricsUsecase.NewListRowsUseCase(rowReader, pageCache)
	suggestUC := metricsUsecase.NewSuggestUseCase(rowReader)

	storeRecordUC := recordsUsecase.NewStoreRecordUseCase(recordRepository, clock, log, func() {
		reportCache.InvalidatePrefix(metricsUsecase.ReportCachePrefix)
		pageCache.InvalidatePrefix(metricsUsecase.PageCachePrefix)
	})
	sharedStateUC := stateUsecase.NewSharedStateUseCase(stateRepository, clock, log)

	jobPool := pond.NewPool(cfg.JobWorkers)
	reportQueue := jobsUsecase.NewReportQueue(context.Background(), jobPool, jobStore,
		func(ctx context.Context, p jobsDomain.ReportParams, from, to time.Time) (any, error) {
			report, err := getMetricsUC.Execute(ctx, metricsUsecase.GetMetricsInput{
				Customer: p.Customer,
				Supplier: p.Supplier,
				From:     from,
				To:       to,
			})
			if err != nil {
				return nil, err
			}
			return metricsHttp.NewReportResponse(report), nil
		},
		jobsUsecase.QueueConfig{
			Clock:  clock,
			Logger: log,
			OnStatus: func(s jobsDomain.Status) {
				observability.JobsTotal.WithLabelValues(string(s)).Inc()
			},
		})

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(observability.Middleware())
	app.Use(ratelimit.New(ratelimit.Config{
		APILimit:     cfg.RateLimitAPI,
		GeneralLimit: cfg.RateLimitGeneral,
		Window:       cfg.RateLimitWindow,
		Clock:        clock,
		Logger:       log,
		OnReject:     observability.ObserveRateLimitReject,
	}).Handler())

	// metrics endpoints
	metricsHandler := metricsHttp.NewMetricsHandler(getMetricsUC, listRowsUC, suggestUC)
	app.Get("/api/metrics", metricsHandler.GetMetrics)
	app.Get("/api/metrics/page", metricsHandler.GetPage)
	app.Get("/api/suggest/:kind", metricsHandler.Suggest)

	// records endpoints
	recordsHandler := recordsHttp.NewRecordHandler(storeRecordUC)
	app.Post("/api/records", recordsHandler.CreateRecord)
	app.Post("/api/records/bulk", recordsHandler.BulkCreateRecords)
	app.Delete("/api/records/:id", recordsHandler.DeleteRecord)

	// shared state endpoints
	stateHandler := stateHttp.NewStateHandler(sharedStateUC)
	app.Post("/api/state", stateHandler.SaveState)
	app.Get("/api/state/:id", stateHandler.LoadState)

	// job endpoints, stats before the id route
	jobsHandler := jobsHttp.NewJobHandler(reportQueue)
	app.Post("/api/jobs/report", jobsHandler.EnqueueReport)
	app.Get("/api/jobs/stats", jobsHandler.Stats)
	app.Get("/api/jobs/:id", jobsHandler.GetJob)

	// health and prometheus
	healthHandler := health.NewHandler(db, breakers, clock)
	app.Get("/health", healthHandler.Health)
	app.Get("/health/live", healthHandler.Live)
	app.Get("/health/ready", healthHandler.Ready)
	app.Get("/metrics", observability.Handler())

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Error("fiber stopped", "error", err)
		}
	}()

	log.Info("server started", "addr", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("fiber shutdown error", "error", err)
	}

	jobPool.StopAndWait()
	fetchPool.StopAndWait()
	reportCache.Stop()
	pageCache.Stop()
	jobStore.Stop()

	log.Info("server exiting")
}
