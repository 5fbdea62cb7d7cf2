package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/config"
)

// Server hosts the gateway HTTP surface: validation, redaction and
// sanitize-then-generate endpoints plus health and prometheus metrics.
type Server struct {
	cfg            *config.Config
	logger         *logrus.Logger
	app            *fiber.App
	handler        *Handler
	metricsStarted bool
}

func New(cfg *config.Config, logger *logrus.Logger, handler *Handler) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             4 * 1024 * 1024,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
	})
	app.Use(recover.New())

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		app:     app,
		handler: handler,
	}
	s.buildRoutes()
	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) buildRoutes() {
	s.app.Use(requestID())

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	v1 := s.app.Group("/v1")
	v1.Post("/validate", s.handler.Validate)
	v1.Post("/redact", s.handler.Redact)
	v1.Post("/generate", s.handler.Generate)
	v1.Post("/detect/:detector", s.handler.DetectOne)
}

func (s *Server) Run() error {
	s.startMetricsServer()
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.WithField("addr", addr).Info("gateway listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) startMetricsServer() {
	if s.cfg.Server.MetricsPort == 0 || s.metricsStarted {
		return
	}
	s.metricsStarted = true

	metricsApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	metricsApp.Use(recover.New())
	metricsApp.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	go func() {
		addr := fmt.Sprintf(":%d", s.cfg.Server.MetricsPort)
		if err := metricsApp.Listen(addr); err != nil {
			if !strings.Contains(err.Error(), "address already in use") {
				s.logger.WithError(err).Error("failed to start metrics server")
			}
		}
	}()
}

func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("request_id", id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}
