package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/acme/nuvia-dialer/internal/domain"
)

// configure accepts a location-cloning request. Cloning is not implemented, so
// a well-formed request is answered with 501.
func (h *HandlerSet) configure(ctx *fiber.Ctx) error {
	var req domain.CloneRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	return translateError(h.relay.Configure(ctx.UserContext(), req))
}
