package handlers

import (
	"brokebesties/internal/middleware"
	"brokebesties/internal/services/debttx"
	"brokebesties/internal/utils/pagination"
	"brokebesties/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DebtTransactionHandler struct {
	transactions *debttx.Service
}

func NewDebtTransactionHandler(transactions *debttx.Service) *DebtTransactionHandler {
	return &DebtTransactionHandler{transactions: transactions}
}

func (h *DebtTransactionHandler) ListPending(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	list, total, err := h.transactions.ListPending(c.UserContext(), middleware.Actor(c), p.Limit, p.Offset)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return response.Success(c, "Pending requests retrieved successfully", pagination.Response(p, list))
}

func (h *DebtTransactionHandler) PendingCount(c *fiber.Ctx) error {
	n, err := h.transactions.PendingCount(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pending count retrieved successfully", fiber.Map{"count": n})
}

func (h *DebtTransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	actor := middleware.Actor(c)
	tx, err := h.transactions.Get(c.UserContext(), actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Request retrieved successfully", fiber.Map{
		"request":      tx,
		"needs_action": h.transactions.NeedsToAct(actor, tx),
	})
}

// Respond takes {"approve": true|false}.
func (h *DebtTransactionHandler) Respond(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input struct {
		Approve *bool `json:"approve"`
	}
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	if input.Approve == nil {
		return response.ValidationError(c, map[string]string{"approve": "must not be empty"})
	}

	out, err := h.transactions.Respond(c.UserContext(), middleware.Actor(c), id, *input.Approve)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, outcomeMessage(out), viewOutcome(out))
}

func (h *DebtTransactionHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.transactions.Cancel(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, outcomeMessage(out), viewOutcome(out))
}
