package handlers

import (
	"brokebesties/internal/middleware"
	"brokebesties/internal/services/debttx"
	"brokebesties/internal/services/friend"
	"brokebesties/internal/services/invite"
	"brokebesties/internal/services/user"
	"brokebesties/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users        user.Service
	transactions *debttx.Service
	friends      *friend.Service
	invites      *invite.Service
}

func NewUserHandler(users user.Service, transactions *debttx.Service, friends *friend.Service, invites *invite.Service) *UserHandler {
	return &UserHandler{users: users, transactions: transactions, friends: friends, invites: invites}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	u, err := h.users.Me(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User retrieved successfully", u)
}

func (h *UserHandler) UpdateNotifications(c *fiber.Ctx) error {
	var input user.NotificationSettings
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	u, err := h.users.UpdateNotificationSettings(c.UserContext(), middleware.Actor(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notification settings updated", fiber.Map{
		"push_enabled":     u.FCMToken != nil && *u.FCMToken != "",
		"telegram_enabled": u.TelegramChatID != nil,
	})
}

// InboxCount returns how many requests of each kind wait on the caller.
func (h *UserHandler) InboxCount(c *fiber.Ctx) error {
	ctx, actor := c.UserContext(), middleware.Actor(c)

	debts, err := h.transactions.PendingCount(ctx, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	friends, err := h.friends.PendingCount(ctx, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	invites, err := h.invites.PendingCount(ctx, actor)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Inbox retrieved successfully", fiber.Map{
		"debt_requests":   debts,
		"friend_requests": friends,
		"group_invites":   invites,
		"total":           debts + friends + invites,
	})
}
