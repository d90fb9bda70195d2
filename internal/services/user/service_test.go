package user_test

import (
	"context"
	"testing"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/user"
	"brokebesties/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsFor(id uuid.UUID, email, name string) *models.UserClaims {
	return &models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
		Email:            email,
		UserMetadata:     map[string]any{"full_name": name},
	}
}

func TestEnsureFromClaims(t *testing.T) {
	db := testutil.NewDB(t)
	svc := user.NewService(repositories.NewUserRepository(db))
	ctx := context.Background()
	id := uuid.New()

	u, err := svc.EnsureFromClaims(ctx, claimsFor(id, "Ivy@Example.com", "Ivy"))
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "ivy@example.com", u.Email)

	_, err = svc.EnsureFromClaims(ctx, claimsFor(id, "ivy@example.com", "Ivy Green"))
	require.NoError(t, err)

	me, err := svc.Me(ctx, models.Actor{ID: id})
	require.NoError(t, err)
	assert.Equal(t, "Ivy Green", me.Name)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureFromClaimsRejectsBadIdentity(t *testing.T) {
	db := testutil.NewDB(t)
	svc := user.NewService(repositories.NewUserRepository(db))

	_, err := svc.EnsureFromClaims(context.Background(), &models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"},
		Email:            "x@example.com",
	})
	assert.Error(t, err)

	_, err = svc.EnsureFromClaims(context.Background(), claimsFor(uuid.New(), "", ""))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestUpdateNotificationSettings(t *testing.T) {
	db := testutil.NewDB(t)
	svc := user.NewService(repositories.NewUserRepository(db))
	ctx := context.Background()
	actor := testutil.CreateUser(t, db, "jo@example.com")

	token := " device-token "
	chat := int64(4242)
	u, err := svc.UpdateNotificationSettings(ctx, actor, user.NotificationSettings{FCMToken: &token, TelegramChatID: &chat})
	require.NoError(t, err)
	require.NotNil(t, u.FCMToken)
	assert.Equal(t, "device-token", *u.FCMToken)
	require.NotNil(t, u.TelegramChatID)
	assert.Equal(t, chat, *u.TelegramChatID)

	_, err = svc.UpdateNotificationSettings(ctx, models.Actor{ID: uuid.New()}, user.NotificationSettings{TelegramChatID: &chat})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
