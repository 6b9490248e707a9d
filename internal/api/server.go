package api

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/acme/nuvia-dialer/internal/api/handlers"
	"github.com/acme/nuvia-dialer/internal/app"
)

// Server wraps the Fiber application.
type Server struct {
	app      *fiber.App
	deps     *app.Container
	handlers *handlers.HandlerSet
}

// NewServer constructs a new HTTP server.
func NewServer(deps *app.Container, handlers *handlers.HandlerSet) *Server {
	cfg := fiber.Config{
		AppName:               deps.Config.App.Name,
		ReadTimeout:           deps.Config.HTTP.ReadTimeout,
		WriteTimeout:          deps.Config.HTTP.WriteTimeout,
		IdleTimeout:           deps.Config.HTTP.IdleTimeout,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	}

	app := fiber.New(cfg)
	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(cors.New(corsConfig(deps.Config.CORS.AllowedOrigins)))
	handlers.Register(app)

	return &Server{app: app, deps: deps, handlers: handlers}
}

// corsConfig allows credentials only for an explicit origin list.
func corsConfig(origins string) cors.Config {
	if origins == "" {
		origins = "*"
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: origins != "*",
	}
}

// App exposes the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.deps.Config.HTTP.Port)
	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()
	return s.app.Listen(addr)
}

// Serve accepts connections on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(ctx)
}
