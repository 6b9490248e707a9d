package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

func (h *HandlerSet) agentState(ctx *fiber.Ctx) error {
	body, err := h.relay.AgentState(ctx.UserContext(), bearerToken(ctx))
	if err != nil {
		return translateError(err)
	}
	return sendRaw(ctx, body)
}

func (h *HandlerSet) campaignsForSkill(ctx *fiber.Ctx) error {
	result, err := h.relay.CampaignsForSkill(ctx.UserContext(), bearerToken(ctx))
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(result)
}
