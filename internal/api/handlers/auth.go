package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/acme/nuvia-dialer/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *HandlerSet) login(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	body, err := h.relay.Login(ctx.UserContext(), domain.Credential{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return translateError(err)
	}

	return sendRaw(ctx, body)
}
