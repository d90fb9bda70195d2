// Package debt records who owes whom inside a group. Once a debt exists,
// changes the borrower cares about go through a debt request instead.
package debt

import (
	"context"
	"time"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateInput struct {
	GroupID     uuid.UUID       `json:"group_id"`
	BorrowerID  uuid.UUID       `json:"borrower_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// UpdateInput edits a debt directly. Nil fields are left unchanged.
type UpdateInput struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
}

type Service struct {
	repo     repositories.DebtRepository
	notifier events.Notifier
}

func NewService(repo repositories.DebtRepository, notifier events.Notifier) *Service {
	if notifier == nil {
		notifier = events.Discard
	}
	return &Service{repo: repo, notifier: notifier}
}

// Create records that in.BorrowerID owes the actor. Both must belong to the group.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Debt, error) {
	debt := &models.Debt{
		GroupID:     in.GroupID,
		LenderID:    actor.ID,
		BorrowerID:  in.BorrowerID,
		Amount:      in.Amount,
		Description: in.Description,
		Status:      models.DebtUnpaid,
	}
	v := validation.New()
	v.Debt(debt)
	if err := v.Err(); err != nil {
		return nil, err
	}

	for _, userID := range []uuid.UUID{actor.ID, in.BorrowerID} {
		ok, err := s.repo.IsGroupMember(ctx, in.GroupID, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.ErrNotGroupMember
		}
	}

	if err := s.repo.Create(ctx, debt); err != nil {
		return nil, err
	}
	s.notify(ctx, events.Created, actor, debt, "new debt of "+debt.Amount.StringFixed(2))
	return debt, nil
}

// Get returns a debt to its lender or borrower.
func (s *Service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Debt, error) {
	debt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !debt.IsParty(actor.ID) {
		return nil, apperrors.ErrNotParty
	}
	return debt, nil
}

func (s *Service) List(ctx context.Context, actor models.Actor, filter repositories.DebtFilter) ([]models.Debt, int64, error) {
	return s.repo.ListForUser(ctx, actor.ID, filter)
}

// Update lets the lender edit a debt while no request on it is pending.
func (s *Service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Debt, error) {
	var debt *models.Debt
	err := s.repo.Atomic(ctx, func(tx repositories.DebtRepository) error {
		d, err := s.lockForLender(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if in.Amount != nil {
			d.Amount = *in.Amount
		}
		if in.Description != nil {
			d.Description = *in.Description
		}
		v := validation.New()
		v.Amount("amount", d.Amount)
		v.MaxLength("description", d.Description, validation.MaxDescriptionLength)
		if err := v.Err(); err != nil {
			return err
		}
		if err := tx.Update(ctx, d); err != nil {
			return err
		}
		debt = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return debt, nil
}

// Delete removes a debt outright. It is refused while a request is pending;
// the borrower's side of a removal otherwise goes through a drop request.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	var debt *models.Debt
	err := s.repo.Atomic(ctx, func(tx repositories.DebtRepository) error {
		d, err := s.lockForLender(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		debt = d
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.Removed, actor, debt, "debt deleted")
	return nil
}

func (s *Service) lockForLender(ctx context.Context, tx repositories.DebtRepository, actor models.Actor, id uuid.UUID) (*models.Debt, error) {
	d, err := tx.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsParty(actor.ID) {
		return nil, apperrors.ErrNotParty
	}
	if d.LenderID != actor.ID {
		return nil, apperrors.ErrNotLender
	}
	pending, err := tx.HasPendingTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperrors.ErrDebtLocked
	}
	return d, nil
}

func (s *Service) notify(ctx context.Context, typ events.Type, actor models.Actor, d *models.Debt, summary string) {
	lender, borrower := models.Party{ID: d.LenderID}, models.Party{ID: d.BorrowerID}
	ev := events.Event{
		Type:         typ,
		Subject:      events.SubjectDebt,
		SubjectID:    d.ID,
		Actor:        actor,
		Recipient:    models.Party{ID: d.OtherParty(actor.ID)},
		Participants: []models.Party{lender, borrower},
		Summary:      summary,
		At:           time.Now(),
	}
	events.Send(ctx, s.notifier, ev)
}
