// File: internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gatherus_backend/internal/auth"
	"gatherus_backend/internal/config"
	"gatherus_backend/internal/flow"
	"gatherus_backend/internal/jobs"
	"gatherus_backend/internal/location"
	"gatherus_backend/internal/metrics"
	"gatherus_backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	flowHandler     *flow.Handler
	authHandler     *auth.Handler
	locationHandler *location.Handler

	// Jobs
	flowSweeperJob *jobs.FlowSweeperJob

	rateLimiter *middleware.RateLimiter
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	flowHandler *flow.Handler,
	authHandler *auth.Handler,
	locationHandler *location.Handler,
	flowSweeperJob *jobs.FlowSweeperJob,
	collector *metrics.Collector,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	rateLimiter := middleware.NewRateLimiter(cfg, logger)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Gatherus API is healthy!"})
	})
	router.GET("/metrics", collector.Handler())

	v1 := router.Group("/api/v1")

	// All client operations hang off a flow.
	flowGroup := v1.Group("/flows/:flowID")
	flowHandler.RegisterRoutes(v1, flowGroup)
	authHandler.RegisterRoutes(flowGroup, rateLimiter.Middleware())
	locationHandler.RegisterRoutes(flowGroup)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:      httpServer,
		router:          router,
		cfg:             cfg,
		logger:          logger,
		flowHandler:     flowHandler,
		authHandler:     authHandler,
		locationHandler: locationHandler,
		flowSweeperJob:  flowSweeperJob,
		rateLimiter:     rateLimiter,
	}, nil
}

func (s *Server) Start() error {
	if s.flowSweeperJob != nil {
		if err := s.flowSweeperJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start flow sweeper job", zap.Error(err))
		}
	} else {
		s.logger.Info("Flow sweeper job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.flowSweeperJob != nil {
		s.flowSweeperJob.Stop()
	}
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
