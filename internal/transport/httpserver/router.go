// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"content-intel-service/internal/app/service"
	"content-intel-service/internal/domain"
	"content-intel-service/internal/infra/redis"
	"content-intel-service/internal/transport/httpserver/handler"
	"content-intel-service/internal/transport/httpserver/middleware"
	"content-intel-service/internal/validator"
)

// defaultBodyLimit fits the 2 MB html field of an analysis request plus
// its JSON envelope.
const defaultBodyLimit = 4 * 1024 * 1024

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port      int
	BodyLimit int
	Debug     bool
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
	cfg    ServerConfig
}

// NewServer creates a new HTTP server with all routes configured.
// cache may be nil when result caching is disabled; readiness then
// degrades to liveness.
func NewServer(
	cfg ServerConfig,
	analysisSvc *service.AnalysisService,
	taggingSvc *service.TaggingService,
	analyticsSvc *service.AnalyticsService,
	extractor domain.Extractor,
	cache *redis.Cache,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = defaultBodyLimit
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "content-intel-service",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: !cfg.Debug,
		ErrorHandler:          errorHandler(logger),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(readinessCheck(cache)))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS())
	app.Use(compress.New())

	// Create handlers
	analysisHandler := handler.NewAnalysisHandler(analysisSvc, extractor, v, logger)
	taggingHandler := handler.NewTaggingHandler(taggingSvc, v, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, v, logger)

	// Register routes
	registerRoutes(app, analysisHandler, taggingHandler, analyticsHandler)

	return &Server{
		App:    app,
		Logger: logger,
		cfg:    cfg,
	}
}

// readinessCheck builds the readiness probe from the optional cache.
func readinessCheck(cache *redis.Cache) middleware.ReadinessCheck {
	if cache == nil {
		return nil
	}

	return func(c *fiber.Ctx) bool {
		return cache.Healthy(c.Context())
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	analysisHandler *handler.AnalysisHandler,
	taggingHandler *handler.TaggingHandler,
	analyticsHandler *handler.AnalyticsHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	// API v1 routes
	v1 := app.Group("/api/v1")

	// Content analysis
	v1.Post("/analysis", analysisHandler.Analyze)
	v1.Get("/extract", analysisHandler.Extract)

	// Tagging
	tags := v1.Group("/tags")
	tags.Post("/generate", taggingHandler.Generate)
	tags.Post("/quick", taggingHandler.Quick)
	tags.Post("/batch", taggingHandler.Batch)
	tags.Post("/analytics", analyticsHandler.Analytics)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		// Log based on status code - 404s are common and not server errors
		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server on the configured port.
func (s *Server) Start() error {
	s.Logger.Info("starting HTTP server", zap.Int("port", s.cfg.Port))

	return s.App.Listen(fmt.Sprintf(":%d", s.cfg.Port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
