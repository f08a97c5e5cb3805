package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/delivery/http/handler"
	"github.com/school-georesolver/internal/delivery/http/middleware"
	apperrors "github.com/school-georesolver/internal/pkg/errors"
	"github.com/school-georesolver/internal/pkg/metrics"
	"github.com/school-georesolver/internal/pkg/utils"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Полный конвейер может обойти несколько внешних API, поэтому запись длиннее чтения
const (
	readTimeout  = 10 * time.Second
	writeTimeout = 2 * time.Minute
	idleTimeout  = time.Minute
)

// Server - HTTP API поверх Fiber
type Server struct {
	app  *fiber.App
	addr string
	log  *zap.Logger
}

func NewServer(cfg *config.Config, logger *zap.Logger, schools *handler.SchoolHandler) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "School Georesolver",
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.Server.CORSOrigins),
		compress.New(compress.Config{Level: compress.LevelBestSpeed}),
	)

	app.Get("/swagger/*", fiberSwagger.WrapHandler)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	registerRoutes(app.Group("/api/v1"), schools)

	return &Server{app: app, addr: cfg.GetServerAddr(), log: logger}
}

func registerRoutes(api fiber.Router, h *handler.SchoolHandler) {
	api.Get("/health", h.Health)

	schools := api.Group("/schools")
	schools.Get("/resolve", h.ResolveGET)
	schools.Post("/resolve", h.ResolvePOST)
	schools.Put("/selection", h.SaveSelection)
	schools.Delete("/selection", h.DeleteSelection)
	schools.Delete("/cache", h.ClearCache)

	api.Post("/batch/schools/resolve", h.BatchResolve)
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", zap.String("address", s.addr))
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler переводит ошибки Fiber (404, 405, 413...) в формат ErrorResponse
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			err = apperrors.New(statusCode(fe.Code), fe.Message, fe.Code)
		}

		appErr := apperrors.From(err)
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("Unhandled HTTP error", zap.String("path", c.Path()), zap.Error(err))
		}

		return utils.SendError(c, appErr)
	}
}

// statusCode: 404 -> NOT_FOUND
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
