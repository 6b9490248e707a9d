package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/nuvia-dialer/internal/app"
	relaysvc "github.com/acme/nuvia-dialer/internal/service/relay"
	"github.com/acme/nuvia-dialer/internal/stream"
)

// HandlerSet bundles all HTTP handlers.
type HandlerSet struct {
	container *app.Container
	relay     *relaysvc.Service
	emitter   *stream.Emitter
}

// NewHandlerSet creates a new handler bundle.
func NewHandlerSet(container *app.Container) *HandlerSet {
	return &HandlerSet{
		container: container,
		relay:     container.Services().Relay,
		emitter:   container.Emitter(),
	}
}

// Register wires all routes onto the fiber app.
func (h *HandlerSet) Register(app *fiber.App) {
	app.Get("/", h.root)
	app.Get("/healthz", h.health)

	api := app.Group("/api")
	api.Post("/login", h.login)
	api.Get("/agent/state", h.agentState)
	api.Get("/campaigns/for-skill", h.campaignsForSkill)
	api.Post("/call", h.startCall)
	api.Post("/configure", h.configure)

	path := h.container.Config.Stream.Path
	app.Use(path, h.streamGate)
	app.Get(path, websocket.New(h.stream))
}

// ErrorHandler provides centralized error responses.
func (h *HandlerSet) ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		h.container.Logger.WithContext(ctx.UserContext()).Error("request failed",
			zap.String("path", ctx.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)
	}

	traceID := ""
	if sc := trace.SpanContextFromContext(ctx.UserContext()); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}

	return ctx.Status(code).JSON(fiber.Map{
		"error":    message,
		"trace_id": traceID,
	})
}

func (h *HandlerSet) root(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "Nuvia dialer backend is live"})
}

func (h *HandlerSet) health(ctx *fiber.Ctx) error {
	cfg := h.container.Config
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":                   "ok",
		"version":                  cfg.App.Version,
		"five9_client_configured":  h.container.Provider().Configured(),
		"activity_publish_enabled": cfg.Kafka.Enabled(),
	})
}

// bearerToken reads the access token from the query string, falling back to
// an Authorization: Bearer header.
func bearerToken(ctx *fiber.Ctx) string {
	if token := ctx.Query("token"); token != "" {
		return token
	}
	auth := ctx.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// sendRaw relays a vendor JSON body unchanged.
func sendRaw(ctx *fiber.Ctx, body []byte) error {
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Status(fiber.StatusOK).Send(body)
}
