package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/k-shtanenko/temperature-archive/config"
	"github.com/k-shtanenko/temperature-archive/internal/infrastructure/metrics"
	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
)

type APIServer struct {
	server     *http.Server
	router     *gin.Engine
	handler    *APIHandler
	middleware *Middleware
	metrics    *metrics.Metrics
	config     *config.Config
	logger     logger.Logger
}

func NewAPIServer(handler *APIHandler, middleware *Middleware, m *metrics.Metrics, cfg *config.Config, log logger.Logger) *APIServer {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
		if cfg.App.Env == "development" {
			gin.SetMode(gin.DebugMode)
		}
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	s := &APIServer{
		router:     router,
		handler:    handler,
		middleware: middleware,
		metrics:    m,
		config:     cfg,
		logger:     log.WithField("component", "api_server"),
	}
	s.setupRoutes()
	return s
}

// Router exposes the engine so it can be driven without a listener.
func (s *APIServer) Router() http.Handler {
	return s.router
}

func (s *APIServer) setupRoutes() {
	s.router.Use(s.middleware.RequestID())
	s.router.Use(s.middleware.Logging())
	s.router.Use(s.middleware.Metrics())
	s.router.Use(s.middleware.Recovery())
	s.router.Use(s.middleware.CORS())

	api := s.router.Group(s.config.API.BasePath)

	api.GET("/health", s.handler.HealthCheck)
	api.GET("/stations", s.handler.Stations)

	if s.config.API.EnableMetrics {
		api.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	queries := api.Group("")
	queries.Use(s.middleware.RateLimit())
	{
		queries.GET("/by_station", s.handler.ByStation)
		queries.GET("/by_date", s.handler.ByDate)
		queries.GET("/by_multiple_stations", s.handler.ByMultipleStations)
		queries.POST("/advancedAnalysis", s.handler.AdvancedAnalysis)

		if s.config.Export.Enabled && s.handler.exporter != nil {
			queries.GET("/by_multiple_stations/export", s.handler.ExportMultipleStations)
		}
	}

	s.router.NoMethod(s.handler.MethodNotAllowed)
	s.router.NoRoute(s.handler.NotFound)
}

// Start binds the port synchronously and serves in the background.
func (s *APIServer) Start() error {
	addr := fmt.Sprintf(":%d", s.config.App.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	go func() {
		s.logger.Infof("Starting API server on port %d", s.config.App.Port)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("API server stopped unexpectedly: %v", err)
		}
	}()

	return nil
}

func (s *APIServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Shutting down API server...")

	if s.config.App.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.App.ShutdownTimeout)
		defer cancel()
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	s.logger.Info("API server stopped")
	return nil
}
