// Package tab keeps private notes of money owed to or by people outside the
// app. A tab is visible to its owner only.
package tab

import (
	"context"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateInput struct {
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	PersonName  string           `json:"person_name"`
	Status      models.TabStatus `json:"status,omitempty"`
}

// UpdateInput edits a tab. Nil fields are left unchanged.
type UpdateInput struct {
	Amount      *decimal.Decimal  `json:"amount,omitempty"`
	Description *string           `json:"description,omitempty"`
	PersonName  *string           `json:"person_name,omitempty"`
	Status      *models.TabStatus `json:"status,omitempty"`
}

type Service struct {
	repo repositories.TabRepository
}

func NewService(repo repositories.TabRepository) *Service {
	return &Service{repo: repo}
}

// Create stores a tab for the actor. Status defaults to borrowing.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Tab, error) {
	t := &models.Tab{
		UserID:      actor.ID,
		Amount:      in.Amount,
		Description: in.Description,
		PersonName:  in.PersonName,
		Status:      in.Status,
	}
	if t.Status == "" {
		t.Status = models.TabBorrowing
	}
	if err := check(t); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get hides other users' tabs behind ErrTabNotFound.
func (s *Service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Tab, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != actor.ID {
		return nil, apperrors.ErrTabNotFound
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, actor models.Actor, status models.TabStatus) ([]models.Tab, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.Validation(map[string]string{"status": "must be lending, borrowing or paid"})
	}
	return s.repo.ListForUser(ctx, actor.ID, status)
}

func (s *Service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Tab, error) {
	t, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.PersonName != nil {
		t.PersonName = *in.PersonName
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if err := check(t); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func check(t *models.Tab) error {
	validation.TrimTab(t)
	v := validation.New()
	v.Tab(t)
	return v.Err()
}
