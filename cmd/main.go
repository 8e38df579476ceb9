package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkConflictsHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/check_conflicts"
	computePriceHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/compute_price"
	confirmHoldHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/confirm_hold"
	findAvailableHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/find_available"
	getResourceStatusHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/get_resource_status"
	placeHoldHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/place_hold"
	releaseHoldHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/release_hold"
	reserveResourcesHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/reserve_resources"
	setMaintenanceHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/set_maintenance"
	unreserveResourcesHandler "github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers/unreserve_resources"
	"github.com/m04kA/SMC-ResourceAllocation/internal/api/middleware"
	"github.com/m04kA/SMC-ResourceAllocation/internal/config"
	allocationRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/allocation"
	holdRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/hold"
	rateCardRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/ratecard"
	resourceRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/conflicts"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/holds"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/pricing"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/resources"
	confirmHoldUC "github.com/m04kA/SMC-ResourceAllocation/internal/usecase/confirm_hold"
	findAvailableUC "github.com/m04kA/SMC-ResourceAllocation/internal/usecase/find_available"
	placeHoldUC "github.com/m04kA/SMC-ResourceAllocation/internal/usecase/place_hold"
	releaseHoldUC "github.com/m04kA/SMC-ResourceAllocation/internal/usecase/release_hold"
	reserveResourcesUC "github.com/m04kA/SMC-ResourceAllocation/internal/usecase/reserve_resources"
	setMaintenanceUC "github.com/m04kA/SMC-ResourceAllocation/internal/usecase/set_maintenance"
	unreserveResourcesUC "github.com/m04kA/SMC-ResourceAllocation/internal/usecase/unreserve_resources"
	"github.com/m04kA/SMC-ResourceAllocation/internal/worker/sweeper"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/clock"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/logger"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/metrics"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ResourceAllocation...")

	location, err := cfg.Engine.Location()
	if err != nil {
		log.Fatal("Failed to load engine timezone %q: %v", cfg.Engine.Timezone, err)
	}
	log.Info("Engine timezone %s, hold TTL %v", location, cfg.Engine.HoldTTL())

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.WrapWithoutMetrics(db)
	}

	txMgr := txmanager.NewTransactionManager(wrappedDB)
	systemClock := clock.NewSystem()

	// Репозитории
	resourceRepository := resourceRepo.NewRepository(wrappedDB)
	allocationRepository := allocationRepo.NewRepository(wrappedDB)
	holdRepository := holdRepo.NewRepository(wrappedDB)
	rateCardRepository := rateCardRepo.NewRepository(wrappedDB)

	// Сервисы
	validator := conflicts.NewValidator(allocationRepository, systemClock, log)
	holdSvc := holds.NewService(holdRepository, systemClock, log)
	pricingSvc := pricing.NewService(rateCardRepository, location, log)
	resourceSvc := resources.NewService(
		resourceRepository,
		allocationRepository,
		holdSvc,
		validator,
		systemClock,
		location,
		log,
	)

	// Use cases
	placeHoldUseCase := placeHoldUC.NewUseCase(
		resourceRepository,
		allocationRepository,
		holdRepository,
		validator,
		pricingSvc,
		txMgr,
		location,
		log,
	)
	releaseHoldUseCase := releaseHoldUC.NewUseCase(allocationRepository, holdRepository, txMgr, log)
	confirmHoldUseCase := confirmHoldUC.NewUseCase(resourceRepository, allocationRepository, holdRepository, txMgr, log)
	reserveUseCase := reserveResourcesUC.NewUseCase(
		resourceRepository,
		allocationRepository,
		validator,
		resourceSvc,
		txMgr,
		location,
		log,
	)
	unreserveUseCase := unreserveResourcesUC.NewUseCase(
		resourceRepository,
		allocationRepository,
		resourceSvc,
		txMgr,
		location,
		log,
	)
	setMaintenanceUseCase := setMaintenanceUC.NewUseCase(
		resourceRepository,
		allocationRepository,
		validator,
		resourceSvc,
		txMgr,
		location,
		log,
	)
	findAvailableUseCase := findAvailableUC.NewUseCase(
		resourceRepository,
		holdSvc,
		validator,
		txMgr,
		location,
		log,
	)

	// Handlers
	findAvailable := findAvailableHandler.NewHandler(findAvailableUseCase, location, log)
	computePrice := computePriceHandler.NewHandler(pricingSvc, location, log)
	getResourceStatus := getResourceStatusHandler.NewHandler(resourceSvc, log)
	checkConflicts := checkConflictsHandler.NewHandler(resourceSvc, location, log)
	placeHold := placeHoldHandler.NewHandler(placeHoldUseCase, location, log)
	releaseHold := releaseHoldHandler.NewHandler(releaseHoldUseCase, log)
	confirmHold := confirmHoldHandler.NewHandler(confirmHoldUseCase, log)
	reserveResources := reserveResourcesHandler.NewHandler(reserveUseCase, location, log)
	unreserveResources := unreserveResourcesHandler.NewHandler(unreserveUseCase, location, log)
	setMaintenance := setMaintenanceHandler.NewHandler(setMaintenanceUseCase, location, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (витрина и оплата)
	// ============================================================

	api.HandleFunc("/resources/available", findAvailable.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId:[0-9]+}/status", getResourceStatus.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId:[0-9]+}/conflicts", checkConflicts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/pricing/quote", computePrice.Handle).Methods(http.MethodGet)

	// --- Удержания на время оплаты ---
	api.HandleFunc("/holds", placeHold.Handle).Methods(http.MethodPost)
	api.HandleFunc("/holds/{holdSetId}", releaseHold.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/holds/{holdSetId}/payment-confirmed", confirmHold.Handle).Methods(http.MethodPost)
	api.HandleFunc("/holds/{holdSetId}/payment-failed", releaseHold.HandlePaymentFailed).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-ID header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth)

	admin.HandleFunc("/reservations", reserveResources.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/reservations/release", unreserveResources.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/resources/{resourceId:[0-9]+}/maintenance", setMaintenance.Handle).Methods(http.MethodPut)

	// Фоновая очистка истёкших удержаний
	ctx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	var sweep *sweeper.Sweeper
	if interval := cfg.Engine.SweepInterval(); interval > 0 {
		sweep = sweeper.New(
			holdRepository,
			allocationRepository,
			resourceRepository,
			resourceSvc,
			txMgr,
			systemClock,
			metricsCollector,
			interval,
			log,
		)
		sweep.Start(ctx)
	} else {
		log.Warn("Sweeper disabled (sweep_interval_seconds = 0)")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if sweep != nil {
		sweep.Stop()
	}

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
