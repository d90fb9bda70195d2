package handlers

import (
	"brokebesties/internal/middleware"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/recurring"
	"brokebesties/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type RecurringHandler struct {
	payments *recurring.Service
}

func NewRecurringHandler(payments *recurring.Service) *RecurringHandler {
	return &RecurringHandler{payments: payments}
}

func (h *RecurringHandler) CreatePayment(c *fiber.Ctx) error {
	var input recurring.CreateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	p, err := h.payments.Create(c.UserContext(), middleware.Actor(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Recurring payment created successfully", p)
}

// ListPayments accepts ?type=lending|borrowing and ?status=active|inactive.
func (h *RecurringHandler) ListPayments(c *fiber.Ctx) error {
	filter := repositories.RecurringFilter{
		Role:   c.Query("type"),
		Status: models.RecurringStatus(c.Query("status")),
	}
	list, err := h.payments.List(c.UserContext(), middleware.Actor(c), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Recurring payments retrieved successfully", list)
}

func (h *RecurringHandler) GetPayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.payments.Get(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Recurring payment retrieved successfully", p)
}

func (h *RecurringHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input recurring.UpdateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	p, err := h.payments.Update(c.UserContext(), middleware.Actor(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Recurring payment updated successfully", p)
}

func (h *RecurringHandler) TogglePayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.payments.Toggle(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Recurring payment is now "+string(p.Status), p)
}

func (h *RecurringHandler) DeletePayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.payments.Delete(c.UserContext(), middleware.Actor(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Recurring payment deleted successfully", nil)
}
