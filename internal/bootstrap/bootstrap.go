package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/k-shtanenko/temperature-archive/config"
	"github.com/k-shtanenko/temperature-archive/internal/application"
	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
	"github.com/k-shtanenko/temperature-archive/internal/domain/ports"
	"github.com/k-shtanenko/temperature-archive/internal/infrastructure/api"
	"github.com/k-shtanenko/temperature-archive/internal/infrastructure/database"
	"github.com/k-shtanenko/temperature-archive/internal/infrastructure/excel"
	"github.com/k-shtanenko/temperature-archive/internal/infrastructure/metrics"
	"github.com/k-shtanenko/temperature-archive/internal/infrastructure/scheduler"
	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
)

const storeHealthJob = "store_health_check"

type App struct {
	config    *config.Config
	logger    logger.Logger
	repo      ports.TemperatureRepository
	service   *application.TemperatureService
	metrics   *metrics.Metrics
	scheduler ports.Scheduler
	apiServer *api.APIServer
}

func Bootstrap() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("service", cfg.App.Name)
	appLogger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	app := &App{
		config: cfg,
		logger: appLogger,
	}

	ctx := context.Background()

	if err := app.initComponents(ctx); err != nil {
		appLogger.Fatalf("Failed to initialize components: %v", err)
	}

	if err := app.start(ctx); err != nil {
		app.shutdownComponents(ctx)
		appLogger.Fatalf("Failed to start application: %v", err)
	}

	app.waitForShutdown()
}

func (a *App) initComponents(ctx context.Context) error {
	a.logger.Info("Initializing components...")

	a.logger.Info("Initializing PostgreSQL repository...")
	repo, err := database.NewPostgresTemperatureRepository(a.config.Postgres, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create temperature repository: %w", err)
	}

	if err := a.attachStore(ctx, repo); err != nil {
		return err
	}

	a.logger.Info("All components initialized successfully")
	return nil
}

// attachStore waits for the store to answer, then wires the rest of the app on top
// of it. The store is closed when it never becomes reachable.
func (a *App) attachStore(ctx context.Context, repo ports.TemperatureRepository) error {
	checker := NewStartupChecker(
		a.config.Postgres.ConnectionTimeout,
		a.config.HealthCheck.RetryInterval,
		a.config.HealthCheck.StartupRetries,
		a.logger,
	)
	if err := checker.checkWithRetry(ctx, "PostgreSQL", repo.HealthCheck); err != nil {
		_ = repo.Close()
		return fmt.Errorf("postgres is unreachable: %w", err)
	}

	a.wire(repo)
	a.metrics.SetStoreUp(true)
	return nil
}

// wire builds everything that sits on top of the store.
func (a *App) wire(repo ports.TemperatureRepository) {
	a.repo = repo

	registry := entities.NewStationRegistry(a.config.Stations.Registry)
	a.logger.Infof("Loaded station registry with %d stations", registry.Len())

	a.service = application.NewTemperatureService(repo, registry, a.logger)
	a.metrics = metrics.New()

	var exporter ports.PivotExporter
	if a.config.Export.Enabled {
		exporter = excel.NewExcelPivotExporter(a.config.Export.SheetName, a.logger)
	}

	a.logger.Info("Initializing scheduler...")
	a.scheduler = scheduler.NewCronScheduler(a.config.HealthCheck.Timeout, a.logger)

	a.logger.Info("Initializing API server...")
	handler := api.NewAPIHandler(a.service, exporter, a.scheduler, a.metrics, a.config.HealthCheck.Timeout, a.logger)
	middleware := api.NewMiddleware(a.config.API, a.metrics, a.logger)
	a.apiServer = api.NewAPIServer(handler, middleware, a.metrics, a.config, a.logger)
}

func (a *App) start(ctx context.Context) error {
	a.logger.Info("Starting application...")

	if err := a.scheduler.Schedule(ctx, storeHealthJob, a.config.HealthCheck.Interval,
		storeHealthCheck(a.service, a.metrics, a.logger)); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", storeHealthJob, err)
	}

	if err := a.apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	a.logger.Info("Application started successfully")
	return nil
}

// storeHealthCheck pings the store and publishes the result as the store_up gauge.
func storeHealthCheck(service ports.TemperatureService, m *metrics.Metrics, log logger.Logger) ports.Task {
	return func(ctx context.Context) error {
		if err := service.HealthCheck(ctx); err != nil {
			m.SetStoreUp(false)
			log.Errorf("Health check failed for store: %v", err)
			return err
		}
		m.SetStoreUp(true)
		log.Debug("Health check passed for store")
		return nil
	}
}

func (a *App) waitForShutdown() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signalChan
	a.logger.Infof("Received signal: %v. Shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), a.config.App.ShutdownTimeout)
	defer cancel()

	a.shutdownComponents(ctx)

	a.logger.Info("Application shutdown completed")
}

// shutdownComponents stops intake first, then background jobs, then the store.
func (a *App) shutdownComponents(ctx context.Context) {
	if a.apiServer != nil {
		a.logger.Info("Stopping API server...")
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Errorf("Failed to stop API server: %v", err)
		}
	}

	if a.scheduler != nil {
		a.logger.Info("Stopping scheduler...")
		a.scheduler.Stop()
	}

	if a.repo != nil {
		a.logger.Info("Closing temperature repository...")
		if err := a.repo.Close(); err != nil {
			a.logger.Errorf("Failed to close temperature repository: %v", err)
		}
	}
}
