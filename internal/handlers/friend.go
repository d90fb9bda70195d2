package handlers

import (
	"brokebesties/internal/middleware"
	"brokebesties/internal/services/friend"
	"brokebesties/internal/utils/pagination"
	"brokebesties/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FriendHandler struct {
	friends *friend.Service
}

func NewFriendHandler(friends *friend.Service) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// SendRequest takes {"user_id": "..."}. Sending back to someone who already
// asked accepts their request.
func (h *FriendHandler) SendRequest(c *fiber.Ctx) error {
	var input struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	if input.UserID == uuid.Nil {
		return response.ValidationError(c, map[string]string{"user_id": "must not be empty"})
	}

	out, err := h.friends.Send(c.UserContext(), middleware.Actor(c), input.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	if out.Merged {
		return response.Success(c, "Friend request accepted", viewOutcome(out))
	}
	return response.Created(c, "Friend request sent", viewOutcome(out))
}

func (h *FriendHandler) ListFriends(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	list, total, err := h.friends.ListFriends(c.UserContext(), middleware.Actor(c), p.Limit, p.Offset)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return response.Success(c, "Friends retrieved successfully", pagination.Response(p, list))
}

func (h *FriendHandler) ListIncoming(c *fiber.Ctx) error {
	list, err := h.friends.ListIncoming(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Incoming requests retrieved successfully", list)
}

func (h *FriendHandler) ListOutgoing(c *fiber.Ctx) error {
	list, err := h.friends.ListOutgoing(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Outgoing requests retrieved successfully", list)
}

func (h *FriendHandler) Accept(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.friends.Accept(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, outcomeMessage(out), viewOutcome(out))
}

func (h *FriendHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.friends.Reject(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, outcomeMessage(out), viewOutcome(out))
}

// Delete removes a friendship, withdraws or declines a pending request, or
// clears a closed one, depending on its status and the caller's role.
func (h *FriendHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.friends.Dismiss(c.UserContext(), middleware.Actor(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Friend entry removed", nil)
}
