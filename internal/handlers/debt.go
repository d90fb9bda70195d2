package handlers

import (
	"brokebesties/internal/middleware"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/debt"
	"brokebesties/internal/services/debttx"
	"brokebesties/internal/utils/pagination"
	"brokebesties/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DebtHandler struct {
	debts        *debt.Service
	transactions *debttx.Service
}

func NewDebtHandler(debts *debt.Service, transactions *debttx.Service) *DebtHandler {
	return &DebtHandler{debts: debts, transactions: transactions}
}

func (h *DebtHandler) CreateDebt(c *fiber.Ctx) error {
	var input debt.CreateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	d, err := h.debts.Create(c.UserContext(), middleware.Actor(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Debt created successfully", d)
}

// ListDebts supports ?group_id=&status=&role=lender|borrower plus paging.
func (h *DebtHandler) ListDebts(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	filter := repositories.DebtFilter{
		Status: models.DebtStatus(c.Query("status")),
		Role:   c.Query("role"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if raw := c.Query("group_id"); raw != "" {
		groupID, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "invalid group_id")
		}
		filter.GroupID = groupID
	}

	debts, total, err := h.debts.List(c.UserContext(), middleware.Actor(c), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return response.Success(c, "Debts retrieved successfully", pagination.Response(p, debts))
}

func (h *DebtHandler) GetDebt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	d, err := h.debts.Get(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Debt retrieved successfully", d)
}

func (h *DebtHandler) UpdateDebt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input debt.UpdateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	d, err := h.debts.Update(c.UserContext(), middleware.Actor(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Debt updated successfully", d)
}

func (h *DebtHandler) DeleteDebt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.debts.Delete(c.UserContext(), middleware.Actor(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Debt deleted successfully", nil)
}

// ProposeTransaction opens a drop, modify or confirm_paid request on a debt.
func (h *DebtHandler) ProposeTransaction(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input debttx.ProposeInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	tx, err := h.transactions.Propose(c.UserContext(), middleware.Actor(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Request sent", tx)
}

func (h *DebtHandler) ListTransactions(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	list, err := h.transactions.ListForDebt(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Requests retrieved successfully", list)
}
