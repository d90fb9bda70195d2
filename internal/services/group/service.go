package group

import (
	"context"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/validation"

	"github.com/google/uuid"
)

type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Service struct {
	repo repositories.GroupRepository
}

func NewService(repo repositories.GroupRepository) *Service {
	return &Service{repo: repo}
}

// Create makes a group with the actor as its admin.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Group, error) {
	g := &models.Group{Name: in.Name, Description: in.Description}
	v := validation.New()
	v.Group(g)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, g, actor.ID); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) List(ctx context.Context, actor models.Actor) ([]models.Group, error) {
	return s.repo.ListForUser(ctx, actor.ID)
}

// Get returns the group with its members. Only members can see it.
func (s *Service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Group, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, m := range g.Members {
		if m.UserID == actor.ID {
			return g, nil
		}
	}
	return nil, apperrors.ErrNotGroupMember
}

func (s *Service) Members(ctx context.Context, actor models.Actor, id uuid.UUID) ([]models.GroupMember, error) {
	ok, err := s.repo.IsMember(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrNotGroupMember
	}
	return s.repo.ListMembers(ctx, id)
}
