package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/pathkeeper/backend/internal/api/http"
	"github.com/pathkeeper/backend/internal/api/middleware"
	"github.com/pathkeeper/backend/internal/api/ws"
	"github.com/pathkeeper/backend/internal/domain/storage"
	"github.com/pathkeeper/backend/internal/infrastructure/config"
	"github.com/pathkeeper/backend/internal/infrastructure/logging"
	"github.com/pathkeeper/backend/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and its dependencies
type Server struct {
	router  *gin.Engine
	manager *storage.Manager
	hub     *ws.Hub
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// New creates a fully wired server instance
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing pathkeeper server",
		zap.String("port", cfg.Server.Port),
		zap.Bool("storage_enabled", cfg.Storage.Enabled),
		zap.Duration("check_interval", cfg.Storage.HealthCheckInterval()),
	)

	metrics := monitoring.NewMetrics()
	hub := ws.NewHub(logger)

	manager := storage.NewManager(storage.Options{
		Enabled:             cfg.Storage.Enabled,
		HealthCheckInterval: cfg.Storage.HealthCheckInterval(),
		ProbeTimeout:        cfg.Storage.ProbeTimeout(),
		StatsExcludes:       cfg.Storage.StatsExcludes,
	}, logger).WithMetrics(metrics).WithEventSink(hub.Broadcast)

	if cfg.Storage.SeedFile != "" {
		seeder := storage.NewSeeder(manager, cfg.Storage.SeedFile)
		if err := seeder.Seed(context.Background()); err != nil {
			logger.Warn("seeding failed", zap.Error(err))
		}
	}
	manager.Start()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := httpapi.NewHandlers(manager)
	handlers.Register(router)
	router.GET("/stream", hub.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		manager: manager,
		hub:     hub,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Manager exposes the storage manager, mainly for tests
func (s *Server) Manager() *storage.Manager {
	return s.manager
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close tears down the storage manager and flushes the logger
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.manager.Destroy()
	s.logger.Sync()
	return nil
}
