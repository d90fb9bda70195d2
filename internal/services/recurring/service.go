// Package recurring tracks amounts a lender covers on a schedule and splits
// between borrowers by percentage. Only the lender changes a payment; every
// borrower can read it.
package recurring

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

type BorrowerInput struct {
	UserID          uuid.UUID       `json:"user_id"`
	SplitPercentage decimal.Decimal `json:"split_percentage"`
}

type CreateInput struct {
	Amount        decimal.Decimal `json:"amount"`
	Description   *string         `json:"description,omitempty"`
	FrequencyDays int             `json:"frequency_days"`
	Borrowers     []BorrowerInput `json:"borrowers"`
}

// UpdateInput edits a payment. Nil fields are left unchanged; the split is fixed at creation.
type UpdateInput struct {
	Amount        *decimal.Decimal        `json:"amount,omitempty"`
	Description   *string                 `json:"description,omitempty"`
	FrequencyDays *int                    `json:"frequency_days,omitempty"`
	Status        *models.RecurringStatus `json:"status,omitempty"`
}

type Service struct {
	repo     repositories.RecurringPaymentRepository
	users    repositories.UserRepository
	notifier events.Notifier
}

func NewService(repo repositories.RecurringPaymentRepository, users repositories.UserRepository, notifier events.Notifier) *Service {
	if notifier == nil {
		notifier = events.Discard
	}
	return &Service{repo: repo, users: users, notifier: notifier}
}

// Create stores a new active payment with the actor as lender and tells each
// borrower their share.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.RecurringPayment, error) {
	p := &models.RecurringPayment{
		LenderID:      actor.ID,
		Amount:        in.Amount,
		Description:   in.Description,
		FrequencyDays: in.FrequencyDays,
		Status:        models.RecurringActive,
	}
	for _, b := range in.Borrowers {
		p.Borrowers = append(p.Borrowers, models.RecurringPaymentBorrower{
			UserID:          b.UserID,
			SplitPercentage: b.SplitPercentage,
		})
	}
	v := validation.New()
	v.RecurringPayment(p)
	if err := v.Err(); err != nil {
		return nil, err
	}

	for _, b := range p.Borrowers {
		if _, err := s.users.FindByID(ctx, b.UserID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	for _, b := range p.Borrowers {
		s.notify(ctx, events.Created, actor, p, b.UserID, "your share is "+p.Share(b.UserID).StringFixed(2))
	}
	return s.repo.FindByID(ctx, p.ID)
}

// Get returns a payment to its lender or one of its borrowers.
func (s *Service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.RecurringPayment, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsParty(actor.ID) {
		return nil, apperrors.ErrNotParty
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, actor models.Actor, filter repositories.RecurringFilter) ([]models.RecurringPayment, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation(map[string]string{"status": "must be active or inactive"})
	}
	return s.repo.ListForUser(ctx, actor.ID, filter)
}

func (s *Service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.RecurringPayment, error) {
	p, err := s.forLender(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.FrequencyDays != nil {
		p.FrequencyDays = *in.FrequencyDays
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	v := validation.New()
	v.RecurringPayment(p)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Toggle flips a payment between active and inactive.
func (s *Service) Toggle(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.RecurringPayment, error) {
	p, err := s.forLender(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.RecurringActive {
		p.Status = models.RecurringInactive
	} else {
		p.Status = models.RecurringActive
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the payment together with its borrowers and alert.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	p, err := s.forLender(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, b := range p.Borrowers {
		s.notify(ctx, events.Removed, actor, p, b.UserID, "recurring payment deleted")
	}
	return nil
}

func (s *Service) forLender(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.RecurringPayment, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.LenderID != actor.ID {
		return nil, apperrors.ErrNotLender
	}
	return p, nil
}

func (s *Service) notify(ctx context.Context, typ events.Type, actor models.Actor, p *models.RecurringPayment, borrowerID uuid.UUID, summary string) {
	ev := events.Event{
		Type:         typ,
		Subject:      events.SubjectRecurringPayment,
		SubjectID:    p.ID,
		Actor:        actor,
		Recipient:    models.Party{ID: borrowerID},
		Participants: []models.Party{{ID: p.LenderID}, {ID: borrowerID}},
		Summary:      summary,
		At:           time.Now(),
	}
	events.Send(ctx, s.notifier, ev)
}
