package handlers

import (
	"brokebesties/internal/middleware"
	"brokebesties/internal/models"
	"brokebesties/internal/services/tab"
	"brokebesties/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type TabHandler struct {
	tabs *tab.Service
}

func NewTabHandler(tabs *tab.Service) *TabHandler {
	return &TabHandler{tabs: tabs}
}

func (h *TabHandler) CreateTab(c *fiber.Ctx) error {
	var input tab.CreateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	t, err := h.tabs.Create(c.UserContext(), middleware.Actor(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Tab created successfully", t)
}

func (h *TabHandler) ListTabs(c *fiber.Ctx) error {
	list, err := h.tabs.List(c.UserContext(), middleware.Actor(c), models.TabStatus(c.Query("status")))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Tabs retrieved successfully", list)
}

func (h *TabHandler) GetTab(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	t, err := h.tabs.Get(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Tab retrieved successfully", t)
}

func (h *TabHandler) UpdateTab(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input tab.UpdateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	t, err := h.tabs.Update(c.UserContext(), middleware.Actor(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Tab updated successfully", t)
}

func (h *TabHandler) DeleteTab(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.tabs.Delete(c.UserContext(), middleware.Actor(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Tab deleted successfully", nil)
}
