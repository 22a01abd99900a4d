package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/primestyle/primestyle/internal/config"
	"github.com/primestyle/primestyle/internal/infra"
	"github.com/primestyle/primestyle/internal/middleware"
	"github.com/primestyle/primestyle/internal/routes"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = time.Minute
	bodyLimit    = 64 * 1024
)

// Server is the PrimeStyle HTTP API.
type Server struct {
	app  *fiber.App
	addr string
}

// New builds the API over the given stores. Nil stores fall back to memory
// (Postgres) or disable the feature (Redis); routes.Setup rejects that
// outside dev.
func New(cfg config.Config, stores infra.Backends, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           idleTimeout,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: !cfg.IsDev(),
		ErrorHandler:          middleware.ErrorHandler,
	})

	deps := routes.Deps{Cfg: cfg, DB: stores.DB, Cache: stores.Cache, Logger: logger}
	if err := routes.Setup(app, deps); err != nil {
		return nil, err
	}
	return &Server{app: app, addr: cfg.Address()}, nil
}

// App exposes the fiber app for in-process tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen() error { return s.app.Listen(s.addr) }

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
