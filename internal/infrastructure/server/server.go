// Package server wires configuration, logging, metrics, the terminal
// registry, and the cwd resolver into the HTTP API.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/TermLens/backend/internal/api/http"
	"github.com/GriffinCanCode/TermLens/backend/internal/api/middleware"
	"github.com/GriffinCanCode/TermLens/backend/internal/cwd"
	"github.com/GriffinCanCode/TermLens/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/TermLens/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermLens/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TermLens/backend/internal/proc"
	"github.com/GriffinCanCode/TermLens/backend/internal/registry"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	router   *gin.Engine
	registry *registry.Manager
	resolver *cwd.Resolver
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance.
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing TermLens server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("capability", capabilityName(cwd.DetectCapability())),
	)

	metrics, promRegistry := monitoring.NewMetrics()

	prober := proc.NewCustom("/proc", nil, cfg.Resolver.ProbeTimeout)
	resolver := cwd.NewResolver(prober, logger)

	terminals := registry.NewManager()

	if cfg.Auth.Token == "" {
		logger.Warn("AUTH_TOKEN is empty; API authentication is disabled")
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(terminals, resolver, metrics, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	authed := router.Group("/", middleware.Auth(cfg.Auth.Token))
	authed.POST("/terminals", handlers.CreateTerminal)
	authed.GET("/terminals", handlers.ListTerminals)
	authed.GET("/terminals/:id", handlers.GetTerminal)
	authed.DELETE("/terminals/:id", handlers.KillTerminal)
	authed.POST("/terminals/:id/resize", handlers.ResizeTerminal)
	authed.POST("/terminals/:id/input", handlers.WriteTerminal)
	authed.GET("/terminals/:id/output", handlers.ReadTerminal)
	authed.GET("/terminals/:id/cwd", handlers.GetTerminalCwd)

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		registry: terminals,
		resolver: resolver,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.registry.Shutdown()
	s.logger.Sync()
	return nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func capabilityName(c cwd.Capability) string {
	switch c {
	case cwd.CapProcFS:
		return "procfs"
	case cwd.CapExternalTool:
		return "external-tool"
	default:
		return "unknown"
	}
}
