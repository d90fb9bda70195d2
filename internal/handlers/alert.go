package handlers

import (
	"brokebesties/internal/middleware"
	"brokebesties/internal/services/alert"
	"brokebesties/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AlertHandler struct {
	alerts *alert.Service
}

func NewAlertHandler(alerts *alert.Service) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

func (h *AlertHandler) CreateAlert(c *fiber.Ctx) error {
	var input alert.CreateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	a, err := h.alerts.Create(c.UserContext(), middleware.Actor(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Alert created successfully", a)
}

func (h *AlertHandler) ListAlerts(c *fiber.Ctx) error {
	list, err := h.alerts.ListForUser(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Alerts retrieved successfully", list)
}

func (h *AlertHandler) GetAlert(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	a, err := h.alerts.Get(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Alert retrieved successfully", a)
}

func (h *AlertHandler) UpdateAlert(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input alert.UpdateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	a, err := h.alerts.Update(c.UserContext(), middleware.Actor(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Alert updated successfully", a)
}

func (h *AlertHandler) DeleteAlert(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.alerts.Delete(c.UserContext(), middleware.Actor(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Alert deleted successfully", nil)
}
