package group_test

import (
	"context"
	"testing"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/group"
	"brokebesties/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndRead(t *testing.T) {
	db := testutil.NewDB(t)
	svc := group.NewService(repositories.NewGroupRepository(db))
	ctx := context.Background()
	kim := testutil.CreateUser(t, db, "kim@example.com")
	lee := testutil.CreateUser(t, db, "lee@example.com")

	_, err := svc.Create(ctx, kim, group.CreateInput{Name: "  "})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	g, err := svc.Create(ctx, kim, group.CreateInput{Name: "Lisbon trip"})
	require.NoError(t, err)
	assert.Equal(t, kim.ID, g.CreatedBy)

	got, err := svc.Get(ctx, kim, g.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, models.RoleAdmin, got.Members[0].Role)

	_, err = svc.Get(ctx, lee, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotGroupMember)
	_, err = svc.Members(ctx, lee, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotGroupMember)
	_, err = svc.Get(ctx, kim, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)

	groups, err := svc.List(ctx, kim)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	members, err := svc.Members(ctx, kim, g.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NotNil(t, members[0].User)
	assert.Equal(t, "kim@example.com", members[0].User.Email)
}
