package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/config"
	"github.com/mobility-map/internal/delivery/http/handler"
	"github.com/mobility-map/internal/delivery/http/middleware"
	"github.com/mobility-map/internal/pkg/errors"
	"github.com/mobility-map/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	sessionHandler   *handler.SessionHandler
	referenceHandler *handler.ReferenceHandler
	configHandler    *handler.ConfigHandler
	healthHandler    *handler.HealthHandler
	wsHandler        *handler.WSHandler
}

// NewServer создает Fiber приложение с middleware и маршрутами
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	sessionHandler *handler.SessionHandler,
	referenceHandler *handler.ReferenceHandler,
	configHandler *handler.ConfigHandler,
	healthHandler *handler.HealthHandler,
	wsHandler *handler.WSHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Mobility Map",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:              app,
		config:           cfg,
		logger:           logger,
		sessionHandler:   sessionHandler,
		referenceHandler: referenceHandler,
		configHandler:    configHandler,
		healthHandler:    healthHandler,
		wsHandler:        wsHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App нужен тестам для app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		// websocket upgrade не сжимаем
		Next: func(c *fiber.Ctx) bool {
			return websocket.IsWebSocketUpgrade(c)
		},
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Push изменений сессии
	s.app.Get("/ws/sessions/:id", s.wsHandler.Upgrade, websocket.New(s.wsHandler.Stream))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)
	api.Get("/config", s.configHandler.GetConfig)

	// Sessions
	sessions := api.Group("/sessions")
	sessions.Post("/", s.sessionHandler.CreateSession)
	sessions.Get("/:id", s.sessionHandler.GetSession)
	sessions.Delete("/:id", s.sessionHandler.DeleteSession)
	sessions.Put("/:id/viewport", s.sessionHandler.UpdateViewport)
	sessions.Put("/:id/filter", s.sessionHandler.UpdateFilter)
	sessions.Put("/:id/options", s.sessionHandler.UpdateOptions)
	sessions.Post("/:id/refresh", s.sessionHandler.Refresh)
	sessions.Get("/:id/markers", s.sessionHandler.GetMarkers)
	sessions.Get("/:id/clusters/:cluster_id/expansion", s.sessionHandler.GetClusterExpansion)
	sessions.Get("/:id/clusters/:cluster_id/leaves", s.sessionHandler.GetClusterLeaves)
	sessions.Get("/:id/statistics", s.sessionHandler.GetStatistics)
	sessions.Get("/:id/vehicles/:vehicle_id", s.sessionHandler.GetVehicle)
	sessions.Get("/:id/stations/:station_id", s.sessionHandler.GetStation)

	// Reference data
	api.Get("/operators", s.referenceHandler.GetOperators)
	api.Get("/codespaces", s.referenceHandler.GetCodespaces)
	api.Get("/geofencing-zones", s.referenceHandler.GetGeofencingZones)

	s.app.Use(func(c *fiber.Ctx) error {
		return utils.SendError(c, errors.New("NOT_FOUND", "Route not found", fiber.StatusNotFound))
	})
}

// Start блокирует до остановки сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "INTERNAL_SERVER_ERROR"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			errCode = "HTTP_ERROR"
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    errCode,
				"message": err.Error(),
			},
		})
	}
}
