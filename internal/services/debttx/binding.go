package debttx

import (
	"context"
	"fmt"
	"strings"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/consent"
	"brokebesties/internal/validation"
)

// binding makes debt changes a dual-approval proposal: whoever opens the
// request has approved it, and the other party on the debt must too.
type binding struct{}

func (binding) Subject() string      { return events.SubjectDebtTransaction }
func (binding) Arity() consent.Arity { return consent.DualApproval }

func (binding) Roles(t *models.DebtTransaction) consent.Roles {
	return consent.Roles{
		Initiator:    models.Party{ID: t.InitiatorID},
		Counterparty: models.Party{ID: t.CounterpartyID},
	}
}

// Prepare runs with the debt row locked, so the checks below hold until commit.
func (binding) Prepare(ctx context.Context, tx repositories.DebtTransactionRepository, actor models.Actor, t *models.DebtTransaction) error {
	if !t.Type.Valid() {
		return apperrors.ErrInvalidKind
	}

	debt, err := tx.LockDebt(ctx, t.DebtID)
	if err != nil {
		return err
	}
	if !debt.IsParty(actor.ID) {
		return apperrors.ErrNotParty
	}

	v := validation.New()
	if t.Reason != nil {
		v.MaxLength("reason", *t.Reason, validation.MaxReasonLength)
	}

	switch t.Type {
	case models.DebtTxModify:
		v.Check(t.ProposedAmount != nil || t.ProposedDescription != nil,
			"proposed_amount", "either proposed_amount or proposed_description is required")
		if t.ProposedAmount != nil {
			v.Amount("proposed_amount", *t.ProposedAmount)
		}
		if t.ProposedDescription != nil {
			v.Check(strings.TrimSpace(*t.ProposedDescription) != "", "proposed_description", "cannot be empty")
			v.MaxLength("proposed_description", *t.ProposedDescription, validation.MaxDescriptionLength)
		}
	case models.DebtTxConfirmPaid:
		if debt.Status == models.DebtPaid {
			return apperrors.ErrDebtAlreadyPaid
		}
		t.ProposedAmount, t.ProposedDescription = nil, nil
	case models.DebtTxDrop:
		t.ProposedAmount, t.ProposedDescription = nil, nil
	}
	if err := v.Err(); err != nil {
		return err
	}

	t.InitiatorID = actor.ID
	t.CounterpartyID = debt.OtherParty(actor.ID)
	t.Debt = debt
	return nil
}

// Debt requests never merge; a second one while one is pending is refused.
func (binding) Reciprocal(_, _ *models.DebtTransaction) bool { return false }

func (binding) Summary(t *models.DebtTransaction) string {
	switch t.Type {
	case models.DebtTxDrop:
		return "drop the debt"
	case models.DebtTxConfirmPaid:
		return "mark the debt as paid"
	}
	var parts []string
	if t.ProposedAmount != nil {
		parts = append(parts, "amount to "+t.ProposedAmount.StringFixed(2))
	}
	if t.ProposedDescription != nil {
		parts = append(parts, fmt.Sprintf("description to %q", *t.ProposedDescription))
	}
	return "change " + strings.Join(parts, " and ")
}
