package invite_test

import (
	"context"
	"testing"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/invite"
	"brokebesties/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    *invite.Service
	events *testutil.Recorder
	admin  models.Actor
	group  *models.Group
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rec := &testutil.Recorder{}
	admin := testutil.CreateUser(t, db, "admin@example.com")
	return &fixture{
		db:     db,
		svc:    invite.NewService(repositories.NewInviteRepository(db), nil, rec),
		events: rec,
		admin:  admin,
		group:  testutil.CreateGroup(t, db, "trip", admin),
	}
}

func (f *fixture) isMember(t *testing.T, userID uuid.UUID) bool {
	t.Helper()
	ok, err := repositories.NewGroupRepository(f.db).IsMember(context.Background(), f.group.ID, userID)
	require.NoError(t, err)
	return ok
}

func TestInviteExistingUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	dana := testutil.CreateUser(t, f.db, "dana@example.com")

	inv, err := f.svc.Create(ctx, f.admin, f.group.ID, " Dana@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", inv.InvitedEmail)
	assert.Equal(t, dana.ID, inv.CounterpartyID)
	assert.Equal(t, events.Proposed, f.events.Last().Type)
	assert.Equal(t, "invitation to join trip", f.events.Last().Summary)

	incoming, err := f.svc.ListIncoming(ctx, dana)
	require.NoError(t, err)
	require.Len(t, incoming, 1)

	out, err := f.svc.Accept(ctx, dana, inv.ID)
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.True(t, f.isMember(t, dana.ID))

	again, err := f.svc.Accept(ctx, dana, inv.ID)
	require.NoError(t, err)
	assert.True(t, again.Replayed)

	_, err = f.svc.Create(ctx, f.admin, f.group.ID, "dana@example.com")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
}

func TestInviteBeforeSignup(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, f.admin, f.group.ID, "eve@example.com")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, inv.CounterpartyID)
	assert.Equal(t, "eve@example.com", f.events.Last().Recipient.Email)

	eve := testutil.CreateUser(t, f.db, "eve@example.com")
	n, err := f.svc.PendingCount(ctx, eve)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	out, err := f.svc.Accept(ctx, eve, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, eve.ID, out.Proposal.CounterpartyID)
	assert.True(t, f.isMember(t, eve.ID))
}

func TestInviteRules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	outsider := testutil.CreateUser(t, f.db, "out@example.com")

	_, err := f.svc.Create(ctx, f.admin, f.group.ID, "not-an-email")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = f.svc.Create(ctx, outsider, f.group.ID, "x@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotGroupMember)

	_, err = f.svc.Create(ctx, f.admin, uuid.New(), "x@example.com")
	assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)

	_, err = f.svc.Create(ctx, f.admin, f.group.ID, "x@example.com")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.admin, f.group.ID, "X@example.com")
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePending)

	_, err = f.svc.ListForGroup(ctx, outsider, f.group.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotGroupMember)
}

func TestRejectThenReinvite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	gus := testutil.CreateUser(t, f.db, "gus@example.com")

	inv, err := f.svc.Create(ctx, f.admin, f.group.ID, gus.Email)
	require.NoError(t, err)

	_, err = f.svc.Reject(ctx, f.admin, inv.ID)
	assert.ErrorIs(t, err, apperrors.ErrInitiatorCannotRespond)

	out, err := f.svc.Reject(ctx, gus, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, out.Proposal.Status)
	assert.False(t, f.isMember(t, gus.ID))

	again, err := f.svc.Create(ctx, f.admin, f.group.ID, gus.Email)
	require.NoError(t, err)
	assert.NotEqual(t, inv.ID, again.ID)

	list, err := f.svc.ListForGroup(ctx, f.admin, f.group.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCancelInvite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	hal := testutil.CreateUser(t, f.db, "hal@example.com")

	inv, err := f.svc.Create(ctx, f.admin, f.group.ID, hal.Email)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, hal, inv.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotInitiator)

	out, err := f.svc.Cancel(ctx, f.admin, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, out.Proposal.Status)

	_, err = f.svc.Accept(ctx, hal, inv.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotPending)
}
