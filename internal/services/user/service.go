package user

import (
	"context"
	"strings"

	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/validation"
)

// NotificationSettings are the delivery addresses a user registers. Nil
// fields are left unchanged.
type NotificationSettings struct {
	FCMToken       *string `json:"fcm_token,omitempty"`
	TelegramChatID *int64  `json:"telegram_chat_id,omitempty"`
}

type Service interface {
	// EnsureFromClaims mirrors the identity provider's account locally.
	EnsureFromClaims(ctx context.Context, claims *models.UserClaims) (*models.User, error)
	Me(ctx context.Context, actor models.Actor) (*models.User, error)
	UpdateNotificationSettings(ctx context.Context, actor models.Actor, in NotificationSettings) (*models.User, error)
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) EnsureFromClaims(ctx context.Context, claims *models.UserClaims) (*models.User, error) {
	actor, err := claims.Actor()
	if err != nil {
		return nil, err
	}
	v := validation.New()
	v.Email("email", actor.Email)
	if err := v.Err(); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:    actor.ID,
		Email: actor.Email,
		Name:  claims.DisplayName(),
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.repo.FindByID(ctx, actor.ID)
}

func (s *service) UpdateNotificationSettings(ctx context.Context, actor models.Actor, in NotificationSettings) (*models.User, error) {
	if in.FCMToken != nil {
		token := strings.TrimSpace(*in.FCMToken)
		in.FCMToken = &token
	}
	if err := s.repo.UpdateNotificationSettings(ctx, actor.ID, in.FCMToken, in.TelegramChatID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, actor.ID)
}
