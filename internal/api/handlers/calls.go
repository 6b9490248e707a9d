package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/acme/nuvia-dialer/internal/domain"
)

type startCallRequest struct {
	Token    string `json:"token"`
	Number   string `json:"number"`
	Campaign string `json:"campaign"`
}

func (h *HandlerSet) startCall(ctx *fiber.Ctx) error {
	var req startCallRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	token := req.Token
	if token == "" {
		token = bearerToken(ctx)
	}

	body, err := h.relay.StartCall(ctx.UserContext(), domain.CallRequest{
		Token:    token,
		Number:   req.Number,
		Campaign: req.Campaign,
	})
	if err != nil {
		return translateError(err)
	}

	return sendRaw(ctx, body)
}
