// Package api wires the HTTP surface of the mailroom backend: routing,
// middleware and handler construction.
package api

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/thedeck/mailroom-backend/internal/api/handlers"
	"github.com/thedeck/mailroom-backend/internal/api/middleware"
	"github.com/thedeck/mailroom-backend/internal/audit"
	"github.com/thedeck/mailroom-backend/internal/config"
	"github.com/thedeck/mailroom-backend/internal/intake"
	"github.com/thedeck/mailroom-backend/internal/logger"
	"github.com/thedeck/mailroom-backend/internal/repository"
	"github.com/thedeck/mailroom-backend/internal/services"
	ws "github.com/thedeck/mailroom-backend/internal/websocket"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	Config       *config.Config
	DB           *gorm.DB
	Store        *intake.Store
	Orchestrator *intake.Orchestrator
	Coordinator  *services.DispatchCoordinator
	Auditor      *audit.Recorder
	Hub          *ws.Hub
	Logger       *slog.Logger
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	secLog := logger.NewSecurityLogger()

	// Security middleware, outermost first
	e.Use(middleware.Recover())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.SecureCORS(cfg.Config.AllowedOrigins, cfg.Config.AppEnv))
	e.Use(middleware.RateLimiter(cfg.Config.RateLimitRequests, cfg.Config.RateLimitBurst, secLog))
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Repositories
	clientRepo := repository.NewClientRepository(cfg.DB)
	mailRepo := repository.NewMailRepository(cfg.DB)
	auditRepo := repository.NewAuditLogRepository(cfg.DB)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	clientHandler := handlers.NewClientHandler(clientRepo, mailRepo, cfg.Auditor)
	mailHandler := handlers.NewMailHandler(mailRepo, cfg.Auditor)
	intakeHandler := handlers.NewIntakeHandler(cfg.Store, cfg.Orchestrator, clientRepo)
	dispatchHandler := handlers.NewDispatchHandler(cfg.Coordinator)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// Event stream for review clients
	if cfg.Hub != nil {
		var upgrader = ws.DefaultUpgrader()
		if cfg.Config.AppEnv == "production" {
			upgrader = ws.NewSecureUpgrader(strings.Split(cfg.Config.AllowedOrigins, ","), secLog)
		}
		wsHandler := handlers.NewWSHandler(cfg.Hub, upgrader, cfg.Logger)
		e.GET("/ws", wsHandler.Connect)
	}

	// API routes
	api := e.Group("/api")
	api.Use(middleware.APIKeyAuth(cfg.Config.APIKey, secLog))

	// Client roster routes
	clients := api.Group("/clients")
	clients.POST("", clientHandler.Create)
	clients.GET("", clientHandler.List)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete)
	clients.GET("/:id/mails", clientHandler.ListMail)

	// Mail record routes
	mails := api.Group("/mails")
	mails.GET("", mailHandler.List)
	mails.GET("/:id", mailHandler.Get)
	mails.PATCH("/:id/status", mailHandler.UpdateStatus)
	mails.DELETE("/:id", mailHandler.Delete)

	// Intake session routes
	in := api.Group("/intake")
	in.POST("/images", intakeHandler.Upload)
	in.GET("/items", intakeHandler.ListItems)
	in.DELETE("/items", intakeHandler.Clear)
	in.PATCH("/items/:id/assignment", intakeHandler.Assign)
	in.DELETE("/items/:id", intakeHandler.RemoveItem)
	in.POST("/process", intakeHandler.Process)
	in.GET("/status", intakeHandler.Status)
	in.GET("/groups", intakeHandler.ListGroups)
	in.PUT("/groups/:key/notes", intakeHandler.SetNotes)
	in.GET("/viewer", intakeHandler.Viewer)
	in.POST("/viewer/open", intakeHandler.OpenViewer)
	in.POST("/viewer/next", intakeHandler.NextItem)
	in.POST("/viewer/prev", intakeHandler.PrevItem)
	in.DELETE("/viewer", intakeHandler.CloseViewer)

	// Dispatch routes
	dispatch := api.Group("/dispatch")
	dispatch.POST("/groups/:key", dispatchHandler.DispatchGroup)
	dispatch.POST("/all", dispatchHandler.DispatchAll)

	// Audit trail routes
	audits := api.Group("/audits")
	audits.POST("", auditHandler.Create)
	audits.GET("", auditHandler.List)
	audits.DELETE("", auditHandler.Cleanup)

	return e
}
