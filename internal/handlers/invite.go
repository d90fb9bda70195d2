package handlers

import (
	"brokebesties/internal/middleware"
	"brokebesties/internal/services/invite"
	"brokebesties/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type InviteHandler struct {
	invites *invite.Service
}

func NewInviteHandler(invites *invite.Service) *InviteHandler {
	return &InviteHandler{invites: invites}
}

func (h *InviteHandler) ListIncoming(c *fiber.Ctx) error {
	list, err := h.invites.ListIncoming(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Invites retrieved successfully", list)
}

func (h *InviteHandler) Accept(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.invites.Accept(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, outcomeMessage(out), viewOutcome(out))
}

func (h *InviteHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.invites.Reject(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, outcomeMessage(out), viewOutcome(out))
}

func (h *InviteHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.invites.Cancel(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, outcomeMessage(out), viewOutcome(out))
}
