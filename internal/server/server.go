package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/champierre/mappreview/internal/api/http"
	"github.com/champierre/mappreview/internal/api/middleware"
	"github.com/champierre/mappreview/internal/infrastructure/config"
	"github.com/champierre/mappreview/internal/infrastructure/monitoring"
	"github.com/champierre/mappreview/internal/logging"
	"github.com/champierre/mappreview/internal/preview"
	"github.com/champierre/mappreview/internal/settings"
	"github.com/champierre/mappreview/internal/workspace"
	"github.com/champierre/mappreview/internal/ws"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	registry *workspace.Registry
	provider *preview.Provider
	loader   *preview.Loader
	log      *logging.Logger
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, log *logging.Logger) (*Server, error) {
	mapSettings, err := settings.Load(cfg.Preview.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load map settings: %w", err)
	}

	registry := workspace.NewRegistry(log.Named("workspace"))
	provider := preview.NewProvider(registry, mapSettings, log.Named("preview"))
	loader := preview.NewLoader(provider, cfg.Preview.Origin, "/static", log.Named("panels"))

	// Opened or refreshed documents invalidate any panel previewing them.
	registry.OnOpen(func(doc *workspace.Document) {
		provider.NotifyDocumentOpened(preview.MakeIdentity(doc.Path))
	})

	metrics := monitoring.NewMetrics()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(registry, provider, loader, metrics, cfg.Preview.WorkspaceRoot, log.Named("http"))
	wsHandler := ws.NewHandler(provider, metrics, log.Named("ws"))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Preview commands
	router.POST("/preview", handlers.Preview)
	router.POST("/preview/projection", handlers.PreviewWithProjection)
	router.GET("/projections/choices", handlers.ProjectionChoices)

	// Panels
	router.GET("/panels", handlers.ListPanels)
	router.GET("/panels/:id", handlers.GetPanel)
	router.DELETE("/panels/:id", handlers.ClosePanel)

	// Workspace documents
	router.GET("/documents", handlers.ListDocuments)
	router.POST("/documents/discover", handlers.DiscoverDocuments)

	// The only local scope panels may load resources from.
	router.Static("/static", cfg.Preview.StaticDir)

	// Change notification stream
	router.GET("/stream", wsHandler.HandleConnection)

	return &Server{
		router:   router,
		cfg:      cfg,
		registry: registry,
		provider: provider,
		loader:   loader,
		log:      log,
	}, nil
}

// Run starts the server
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.log.Info("starting map preview service",
		zap.String("addr", addr),
		zap.String("static_dir", s.cfg.Preview.StaticDir),
		zap.String("workspace_root", s.cfg.Preview.WorkspaceRoot))
	return s.router.Run(addr)
}

// Close cleans up resources
func (s *Server) Close() error {
	return s.log.Sync()
}
