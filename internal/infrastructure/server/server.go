package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/agentdesk/host/internal/api/http"
	"github.com/agentdesk/host/internal/api/middleware"
	"github.com/agentdesk/host/internal/api/ws"
	"github.com/agentdesk/host/internal/domain/service"
	"github.com/agentdesk/host/internal/infrastructure/config"
	"github.com/agentdesk/host/internal/infrastructure/logging"
	"github.com/agentdesk/host/internal/infrastructure/monitoring"
	"github.com/agentdesk/host/internal/providers/credentials"
	"github.com/agentdesk/host/internal/providers/links"
	"github.com/agentdesk/host/internal/providers/terminal"
)

// Server wraps the bridge router and host dependencies.
type Server struct {
	router    *gin.Engine
	registry  *service.Registry
	terminals *terminal.Manager
	hub       *ws.Hub
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a new host server instance.
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		l, err := logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			OutputPaths: []string{"stdout"},
		})
		if err != nil {
			logger = logging.NewDefault()
		} else {
			logger = l
		}
	}

	logger.Info("Initializing host",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
	)

	metrics := monitoring.NewMetrics()

	// The hub exists before any terminal so the sink accessor can close over
	// it. While no UI is attached the accessor yields nil and events are
	// dropped; the replay buffer covers the gap.
	hub := ws.NewHub(logger, metrics)

	terminalManager := terminal.NewManager(terminal.Options{
		StateDir:   cfg.Terminal.StateDir,
		WorkingDir: cfg.Terminal.WorkingDir,
		Shell:      cfg.Terminal.Shell,
		AppEntry:   cfg.Terminal.AppEntry,
		RuntimeBin: cfg.Terminal.RuntimeBin,
		ToolBins:   cfg.Terminal.ToolBins,
		BufferSize: cfg.Terminal.BufferSize,
		Sink: func() terminal.Sink {
			if hub.Count() == 0 {
				return nil
			}
			return hub
		},
	}, logger).WithMetrics(metrics)

	registry := service.NewRegistry()
	registerProviders(registry, terminalManager, cfg, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
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

	handlers := apihttp.NewHandlers(registry, terminalManager, metrics, logger)
	wsHandler := ws.NewHandler(hub, terminalManager, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)
	router.GET("/stream", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Host initialized")

	return &Server{
		router:    router,
		registry:  registry,
		terminals: terminalManager,
		hub:       hub,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// Run starts the bridge server. Blocks until the listener fails.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting bridge server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close tears down host resources. Every live terminal session dies with the
// host; sessions never outlive it.
func (s *Server) Close() error {
	s.logger.Info("Shutting down host")
	s.terminals.KillAll()
	s.logger.Sync()
	return nil
}

func registerProviders(registry *service.Registry, terminals *terminal.Manager, cfg *config.Config, logger *logging.Logger) {
	providers := []service.Provider{
		terminal.NewProvider(terminals),
		links.NewProvider(logger),
		credentials.NewProvider(cfg.Terminal.StateDir, logger),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			logger.Warn("failed to register provider",
				zap.String("service", p.Definition().ID),
				zap.Error(err),
			)
		}
	}
}
