// Package alert stores lenders' payment reminders on debts and recurring
// payments. Deadlines are recorded but never acted on here.
package alert

import (
	"context"
	"time"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/validation"

	"github.com/google/uuid"
)

// CreateInput names exactly one of DebtID or RecurringPaymentID.
type CreateInput struct {
	DebtID             *uuid.UUID `json:"debt_id,omitempty"`
	RecurringPaymentID *uuid.UUID `json:"recurring_payment_id,omitempty"`
	Message            *string    `json:"message,omitempty"`
	Deadline           *time.Time `json:"deadline,omitempty"`
}

type UpdateInput struct {
	Message  *string    `json:"message,omitempty"`
	Deadline *time.Time `json:"deadline,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}

type Service struct {
	repo      repositories.AlertRepository
	debts     repositories.DebtRepository
	recurring repositories.RecurringPaymentRepository
}

func NewService(repo repositories.AlertRepository, debts repositories.DebtRepository, recurring repositories.RecurringPaymentRepository) *Service {
	return &Service{repo: repo, debts: debts, recurring: recurring}
}

// Create attaches a reminder to a debt or a recurring payment. Only the
// lender may, and only once per target.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Alert, error) {
	a := &models.Alert{
		Message:  in.Message,
		Deadline: in.Deadline,
		IsActive: true,
	}
	switch {
	case in.DebtID != nil && in.RecurringPaymentID == nil:
		debt, err := s.debts.FindByID(ctx, *in.DebtID)
		if err != nil {
			return nil, err
		}
		a.DebtID = &debt.ID
		a.LenderID = debt.LenderID
		a.BorrowerID = debt.BorrowerID
	case in.RecurringPaymentID != nil && in.DebtID == nil:
		p, err := s.recurring.FindByID(ctx, *in.RecurringPaymentID)
		if err != nil {
			return nil, err
		}
		if len(p.Borrowers) == 0 {
			return nil, apperrors.ErrRecurringHasNoBorrowers
		}
		// Recurring reminders go to the first borrower and carry no deadline.
		a.RecurringPaymentID = &p.ID
		a.LenderID = p.LenderID
		a.BorrowerID = p.Borrowers[0].UserID
		a.Deadline = nil
	}
	if a.LenderID != uuid.Nil && a.LenderID != actor.ID {
		return nil, apperrors.ErrNotLender
	}

	v := validation.New()
	v.Alert(a)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Alert, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.LenderID != actor.ID && a.BorrowerID != actor.ID {
		return nil, apperrors.ErrNotParty
	}
	return a, nil
}

func (s *Service) ListForUser(ctx context.Context, actor models.Actor) ([]models.Alert, error) {
	return s.repo.ListForUser(ctx, actor.ID)
}

func (s *Service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Alert, error) {
	a, err := s.forLender(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Message != nil {
		a.Message = in.Message
	}
	if in.Deadline != nil {
		a.Deadline = in.Deadline
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}

	v := validation.New()
	if a.Message != nil {
		v.MaxLength("message", *a.Message, validation.MaxAlertMessage)
	}
	if in.Deadline != nil {
		v.Future("deadline", *in.Deadline)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if _, err := s.forLender(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) forLender(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Alert, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if a.LenderID != actor.ID {
		return nil, apperrors.ErrNotLender
	}
	return a, nil
}
