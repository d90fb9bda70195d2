package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingChannel struct {
	mu   sync.Mutex
	name string
	err  error
	got  []Recipient
	msgs []Message
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Deliver(_ context.Context, to Recipient, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, to)
	c.msgs = append(c.msgs, msg)
	return c.err
}

func friendEvent(to models.Party) events.Event {
	return events.Event{
		Type:      events.Proposed,
		Subject:   events.SubjectFriend,
		SubjectID: uuid.New(),
		Actor:     models.Actor{ID: uuid.New(), Name: "Ana"},
		Recipient: to,
		Summary:   "friend request",
	}
}

func TestDispatcherResolvesUserByID(t *testing.T) {
	users := new(mockUsers)
	token := "tok"
	ben := &models.User{ID: uuid.New(), Email: "ben@example.com", Name: "Ben", FCMToken: &token}
	users.On("FindByID", mock.Anything, ben.ID).Return(ben, nil)

	email := &recordingChannel{name: "email"}
	push := &recordingChannel{name: "push", err: errors.New("unregistered token")}
	d := NewDispatcher(users, "https://app.example", email, push)

	require.NoError(t, d.Notify(context.Background(), friendEvent(models.Party{ID: ben.ID})))
	d.Wait()

	require.Len(t, email.got, 1)
	assert.Equal(t, "ben@example.com", email.got[0].Email)
	assert.Equal(t, "Ana sent you a friend request", email.msgs[0].Subject)
	assert.Contains(t, email.msgs[0].HTML, "https://app.example")
	require.Len(t, push.got, 1)
	assert.Equal(t, &token, push.got[0].FCMToken)
	users.AssertExpectations(t)
}

func TestDispatcherFallsBackToInviteEmail(t *testing.T) {
	users := new(mockUsers)
	users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, apperrors.ErrUserNotFound)

	email := &recordingChannel{name: "email"}
	d := NewDispatcher(users, "", email)

	ev := friendEvent(models.Party{Email: "new@example.com"})
	ev.Subject = events.SubjectGroupInvite
	require.NoError(t, d.Notify(context.Background(), ev))
	d.Wait()

	require.Len(t, email.got, 1)
	assert.Equal(t, uuid.Nil, email.got[0].UserID)
	assert.Equal(t, "new@example.com", email.got[0].Email)
}

func TestDispatcherReportsLookupFailure(t *testing.T) {
	users := new(mockUsers)
	id := uuid.New()
	users.On("FindByID", mock.Anything, id).Return(nil, errors.New("db down"))

	email := &recordingChannel{name: "email"}
	d := NewDispatcher(users, "", email)

	err := d.Notify(context.Background(), friendEvent(models.Party{ID: id}))
	assert.Error(t, err)
	d.Wait()
	assert.Empty(t, email.got)
}

func TestDispatcherWithoutChannelsIsNoop(t *testing.T) {
	users := new(mockUsers)
	d := NewDispatcher(users, "")
	assert.NoError(t, d.Notify(context.Background(), friendEvent(models.Party{ID: uuid.New()})))
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestDeliveryOutlivesRequestContext(t *testing.T) {
	users := new(mockUsers)
	u := &models.User{ID: uuid.New(), Email: "c@example.com"}
	users.On("FindByID", mock.Anything, u.ID).Return(u, nil)

	var seen error
	ch := channelFunc(func(ctx context.Context) { seen = ctx.Err() })
	d := NewDispatcher(users, "", ch)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Notify(ctx, friendEvent(models.Party{ID: u.ID})))
	cancel()
	d.Wait()
	assert.NoError(t, seen)
}

type channelFunc func(ctx context.Context)

func (f channelFunc) Name() string { return "func" }

func (f channelFunc) Deliver(ctx context.Context, _ Recipient, _ Message) error {
	f(ctx)
	return nil
}

func TestRender(t *testing.T) {
	ev := events.Event{
		Type:      events.Approved,
		Subject:   events.SubjectDebtTransaction,
		SubjectID: uuid.New(),
		Actor:     models.Actor{Email: "lee@example.com"},
		Summary:   "change amount to 40.00",
	}
	msg, err := Render(ev, "https://app.example")
	require.NoError(t, err)
	assert.Equal(t, "lee@example.com accepted your debt request", msg.Subject)
	assert.Equal(t, "lee@example.com accepted your debt request: change amount to 40.00.", msg.Text)
	assert.Equal(t, ev.SubjectID.String(), msg.Data["subject_id"])

	ev.Actor.Name = "<b>Lee</b>"
	msg, err = Render(ev, "")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "&lt;b&gt;Lee&lt;/b&gt;")

	ev.Subject = "unknown"
	_, err = Render(ev, "")
	assert.Error(t, err)
}
