package handlers

import (
	"brokebesties/internal/middleware"
	"brokebesties/internal/services/group"
	"brokebesties/internal/services/invite"
	"brokebesties/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	groups  *group.Service
	invites *invite.Service
}

func NewGroupHandler(groups *group.Service, invites *invite.Service) *GroupHandler {
	return &GroupHandler{groups: groups, invites: invites}
}

func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	var input group.CreateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	g, err := h.groups.Create(c.UserContext(), middleware.Actor(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Group created successfully", g)
}

func (h *GroupHandler) ListGroups(c *fiber.Ctx) error {
	list, err := h.groups.List(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Groups retrieved successfully", list)
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	g, err := h.groups.Get(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Group retrieved successfully", g)
}

// CreateInvite takes {"email": "..."}.
func (h *GroupHandler) CreateInvite(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	inv, err := h.invites.Create(c.UserContext(), middleware.Actor(c), id, input.Email)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Invite sent", inv)
}

func (h *GroupHandler) ListInvites(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	list, err := h.invites.ListForGroup(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Invites retrieved successfully", list)
}
