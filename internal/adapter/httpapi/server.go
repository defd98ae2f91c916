// Package httpapi exposes the chat service over HTTP. Route wiring only;
// all request semantics live in the chat usecase.
package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avolkov/secretword/internal/usecase/chat"
)

// Config is the HTTP server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g. ":8000")
	ListenAddr string
	// AppName is reported by the health endpoint.
	AppName string
	// CORSOrigins are the allowed cross-origin frontends.
	CORSOrigins []string
}

// Server serves the chat API.
type Server struct {
	config Config
	chat   *chat.Service
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates the API server around an already-wired chat service.
func NewServer(config Config, chatService *chat.Service, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		chat:   chatService,
		logger: logger,
		app:    app,
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(config.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(s.requestLogger)

	app.Get("/", s.handleRoot)
	app.Get("/api/health", s.handleHealth)
	app.Post("/api/chat", s.handleChat)

	return s
}

// Run starts the server on the configured address and blocks.
func (s *Server) Run() error {
	s.logger.Info("starting chat API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Locals("request_id", requestID)

	start := time.Now()
	err := c.Next()

	s.logger.Info("request",
		zap.String("request_id", requestID),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)

	return err
}
