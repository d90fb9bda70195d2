package consent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, ev events.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type fixture struct {
	store    *memStore
	binding  *memBinding
	machine  *Machine[*memProposal, *memStore]
	lender   models.Actor
	borrower models.Actor
	outsider models.Actor
}

func newFixture(t *testing.T, arity Arity, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store:    newMemStore(),
		lender:   models.Actor{ID: uuid.New(), Email: "lender@example.com"},
		borrower: models.Actor{ID: uuid.New(), Email: "borrower@example.com"},
		outsider: models.Actor{ID: uuid.New(), Email: "outsider@example.com"},
	}
	f.binding = &memBinding{arity: arity, counterparty: f.lender.ID}
	f.machine = New[*memProposal, *memStore](f.store, f.binding, opts...)
	f.store.subjects["debt"] = 50
	return f
}

// propose opens a modify-style proposal from the borrower toward the lender.
func (f *fixture) propose(t *testing.T, value int) *memProposal {
	t.Helper()
	out, err := f.machine.Propose(context.Background(), f.borrower, &memProposal{Subject: "debt", Value: value})
	require.NoError(t, err)
	return out.Proposal
}

func TestProposeRecordsInitiatorApproval(t *testing.T) {
	n := &mockNotifier{}
	f := newFixture(t, DualApproval, WithNotifier(n))
	n.On("Notify", mock.Anything, mock.MatchedBy(func(ev events.Event) bool {
		return ev.Type == events.Proposed && ev.Recipient.ID == f.lender.ID && ev.Actor.ID == f.borrower.ID
	})).Return(nil).Once()

	p := f.propose(t, 40)

	row := f.store.row(p.ID)
	assert.Equal(t, models.StatusPending, row.Status)
	assert.True(t, row.InitiatorApproved)
	assert.False(t, row.CounterpartyApproved)
	assert.Equal(t, 1, row.Version)
	assert.Nil(t, row.ResolvedAt)
	n.AssertExpectations(t)
}

func TestProposeSingleApprovalClearsFlags(t *testing.T) {
	f := newFixture(t, SingleApproval)

	p := f.propose(t, 1)

	row := f.store.row(p.ID)
	assert.False(t, row.InitiatorApproved)
	assert.False(t, row.CounterpartyApproved)
}

func TestProposeRejectsDuplicatePending(t *testing.T) {
	f := newFixture(t, DualApproval)
	f.propose(t, 40)

	_, err := f.machine.Propose(context.Background(), f.lender, &memProposal{Subject: "debt", Value: 0, Consent: models.Consent{CounterpartyID: f.borrower.ID}})

	assert.ErrorIs(t, err, apperrors.ErrDuplicatePending)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	assert.Len(t, f.store.rows, 1)
}

func TestProposePrepareFailureCreatesNothing(t *testing.T) {
	f := newFixture(t, DualApproval)
	f.binding.prepareErr = apperrors.ErrInvalidAmount

	_, err := f.machine.Propose(context.Background(), f.borrower, &memProposal{Subject: "debt"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	assert.Empty(t, f.store.rows)
}

func TestApprovalAppliesChange(t *testing.T) {
	n := &mockNotifier{}
	f := newFixture(t, DualApproval, WithNotifier(n))
	n.On("Notify", mock.Anything, mock.MatchedBy(func(ev events.Event) bool { return ev.Type == events.Proposed })).Return(nil)
	n.On("Notify", mock.Anything, mock.MatchedBy(func(ev events.Event) bool {
		return ev.Type == events.Approved && ev.Recipient.ID == f.borrower.ID
	})).Return(nil).Once()
	p := f.propose(t, 40)

	out, err := f.machine.Respond(context.Background(), f.lender, p.ID, Approve)

	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, models.StatusApproved, out.Proposal.Status)
	assert.NotNil(t, out.Proposal.ResolvedAt)
	assert.Equal(t, 40, f.store.subjects["debt"])
	n.AssertExpectations(t)
}

func TestRepeatedApprovalIsIdempotent(t *testing.T) {
	f := newFixture(t, DualApproval)
	p := f.propose(t, 40)

	first, err := f.machine.Respond(context.Background(), f.lender, p.ID, Approve)
	require.NoError(t, err)
	second, err := f.machine.Respond(context.Background(), f.lender, p.ID, Approve)
	require.NoError(t, err)

	assert.True(t, first.Applied)
	assert.True(t, second.Replayed)
	assert.False(t, second.Applied)
	assert.Equal(t, models.StatusApproved, second.Proposal.Status)
	assert.Equal(t, 40, f.store.subjects["debt"])
	assert.Equal(t, 1, f.store.appliedCount("debt"))
}

func TestInitiatorApproveWhilePendingIsReplay(t *testing.T) {
	f := newFixture(t, DualApproval)
	p := f.propose(t, 40)

	out, err := f.machine.Respond(context.Background(), f.borrower, p.ID, Approve)

	require.NoError(t, err)
	assert.True(t, out.Replayed)
	assert.Equal(t, models.StatusPending, f.store.row(p.ID).Status)
	assert.Equal(t, 50, f.store.subjects["debt"])
}

func TestConcurrentApprovalsApplyExactlyOnce(t *testing.T) {
	f := newFixture(t, DualApproval)
	p := f.propose(t, 40)

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
		errs    []error
	)
	for i := 0; i < callers; i++ {
		actor := f.lender
		if i%2 == 1 {
			actor = f.borrower
		}
		wg.Add(1)
		go func(actor models.Actor) {
			defer wg.Done()
			out, err := f.machine.Respond(context.Background(), actor, p.ID, Approve)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if out.Applied {
				applied++
			}
		}(actor)
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, f.store.appliedCount("debt"))
	assert.Equal(t, models.StatusApproved, f.store.row(p.ID).Status)
}

func TestRejectionDominates(t *testing.T) {
	tests := []struct {
		name    string
		respond func(t *testing.T, f *fixture, id uuid.UUID)
	}{
		{
			name: "counterparty rejects while initiator approval is recorded",
			respond: func(t *testing.T, f *fixture, id uuid.UUID) {
				_, err := f.machine.Respond(context.Background(), f.lender, id, Reject)
				require.NoError(t, err)
			},
		},
		{
			name: "late approval after rejection fails",
			respond: func(t *testing.T, f *fixture, id uuid.UUID) {
				_, err := f.machine.Respond(context.Background(), f.lender, id, Reject)
				require.NoError(t, err)
				_, err = f.machine.Respond(context.Background(), f.lender, id, Approve)
				assert.ErrorIs(t, err, apperrors.ErrNotPending)
			},
		},
		{
			name: "repeated rejection is a replay",
			respond: func(t *testing.T, f *fixture, id uuid.UUID) {
				_, err := f.machine.Respond(context.Background(), f.lender, id, Reject)
				require.NoError(t, err)
				out, err := f.machine.Respond(context.Background(), f.lender, id, Reject)
				require.NoError(t, err)
				assert.True(t, out.Replayed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DualApproval)
			p := f.propose(t, 40)

			tt.respond(t, f, p.ID)

			assert.Equal(t, models.StatusRejected, f.store.row(p.ID).Status)
			assert.Equal(t, 50, f.store.subjects["debt"])
			assert.Zero(t, f.store.appliedCount("debt"))
		})
	}
}

func TestInitiatorCannotRejectOwnProposal(t *testing.T) {
	f := newFixture(t, DualApproval)
	p := f.propose(t, 40)

	_, err := f.machine.Respond(context.Background(), f.borrower, p.ID, Reject)

	assert.ErrorIs(t, err, apperrors.ErrInitiatorCannotRespond)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.Equal(t, models.StatusPending, f.store.row(p.ID).Status)
}

func TestRespondAuthorization(t *testing.T) {
	f := newFixture(t, DualApproval)
	p := f.propose(t, 40)

	_, err := f.machine.Respond(context.Background(), f.outsider, p.ID, Approve)
	assert.ErrorIs(t, err, apperrors.ErrNotParty)

	_, err = f.machine.Respond(context.Background(), f.lender, uuid.New(), Approve)
	assert.ErrorIs(t, err, apperrors.ErrProposalNotFound)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSingleApproval(t *testing.T) {
	f := newFixture(t, SingleApproval)
	p := f.propose(t, 7)

	_, err := f.machine.Respond(context.Background(), f.borrower, p.ID, Approve)
	assert.ErrorIs(t, err, apperrors.ErrInitiatorCannotRespond)

	out, err := f.machine.Respond(context.Background(), f.lender, p.ID, Approve)
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.True(t, out.Proposal.CounterpartyApproved)
	assert.Equal(t, 7, f.store.subjects["debt"])
}

func TestInitiatorEligibilityIgnoresStatus(t *testing.T) {
	tests := []struct {
		name     string
		arity    Arity
		resolve  Decision
		decision Decision
		wantErr  error
		replayed bool
	}{
		{"single approval accept after approval", SingleApproval, Approve, Approve, apperrors.ErrInitiatorCannotRespond, false},
		{"single approval reject after rejection", SingleApproval, Reject, Reject, apperrors.ErrInitiatorCannotRespond, false},
		{"dual approval reject after rejection", DualApproval, Reject, Reject, apperrors.ErrInitiatorCannotRespond, false},
		{"dual approval approve after approval", DualApproval, Approve, Approve, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.arity)
			p := f.propose(t, 40)

			_, err := f.machine.Respond(context.Background(), f.borrower, p.ID, tt.decision)
			if tt.decision == Reject || tt.arity == SingleApproval {
				require.ErrorIs(t, err, apperrors.ErrInitiatorCannotRespond, "pending")
			}

			_, err = f.machine.Respond(context.Background(), f.lender, p.ID, tt.resolve)
			require.NoError(t, err)

			out, err := f.machine.Respond(context.Background(), f.borrower, p.ID, tt.decision)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.replayed, out.Replayed)
		})
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t, DualApproval)
	p := f.propose(t, 40)

	_, err := f.machine.Cancel(context.Background(), f.lender, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotInitiator)

	_, err = f.machine.Cancel(context.Background(), f.outsider, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotParty)

	out, err := f.machine.Cancel(context.Background(), f.borrower, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, out.Proposal.Status)
	assert.Equal(t, 50, f.store.subjects["debt"])

	again, err := f.machine.Cancel(context.Background(), f.borrower, p.ID)
	require.NoError(t, err)
	assert.True(t, again.Replayed)

	_, err = f.machine.Respond(context.Background(), f.lender, p.ID, Approve)
	assert.ErrorIs(t, err, apperrors.ErrNotPending)
}

func TestCancelAfterApprovalFails(t *testing.T) {
	f := newFixture(t, DualApproval)
	p := f.propose(t, 40)
	_, err := f.machine.Respond(context.Background(), f.lender, p.ID, Approve)
	require.NoError(t, err)

	_, err = f.machine.Cancel(context.Background(), f.borrower, p.ID)

	assert.ErrorIs(t, err, apperrors.ErrNotPending)
	assert.Equal(t, 40, f.store.subjects["debt"])
}

func TestReciprocalProposalMerges(t *testing.T) {
	f := newFixture(t, SingleApproval)
	f.binding.reciprocal = true
	p := f.propose(t, 1)

	out, err := f.machine.Propose(context.Background(), f.lender, &memProposal{
		Subject: "debt",
		Value:   1,
		Consent: models.Consent{CounterpartyID: f.borrower.ID},
	})

	require.NoError(t, err)
	assert.True(t, out.Merged)
	assert.True(t, out.Applied)
	assert.Equal(t, p.ID, out.Proposal.ID)
	assert.Equal(t, models.StatusApproved, f.store.row(p.ID).Status)
	assert.Len(t, f.store.rows, 1)
}

func TestNotifierFailureDoesNotRollBack(t *testing.T) {
	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	f := newFixture(t, DualApproval, WithNotifier(n))
	p := f.propose(t, 40)

	out, err := f.machine.Respond(context.Background(), f.lender, p.ID, Approve)

	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, 40, f.store.subjects["debt"])
}

func TestPanickingNotifierIsContained(t *testing.T) {
	f := newFixture(t, DualApproval, WithNotifier(events.NotifierFunc(func(context.Context, events.Event) error {
		panic("boom")
	})))

	assert.NotPanics(t, func() {
		p := f.propose(t, 40)
		_, err := f.machine.Cancel(context.Background(), f.borrower, p.ID)
		assert.NoError(t, err)
	})
}

func TestStaleVersionIsRejectedAndRolledBack(t *testing.T) {
	f := newFixture(t, DualApproval)
	p := f.propose(t, 40)
	f.store.beforeUpdate = func(s *memStore, id uuid.UUID) {
		row := s.rows[id]
		row.Version++
		s.rows[id] = row
	}

	_, err := f.machine.Respond(context.Background(), f.lender, p.ID, Approve)

	assert.ErrorIs(t, err, apperrors.ErrConcurrentUpdate)
	f.store.beforeUpdate = nil
	assert.Equal(t, models.StatusPending, f.store.row(p.ID).Status)
	assert.Equal(t, 1, f.store.row(p.ID).Version)
	assert.Equal(t, 50, f.store.subjects["debt"])
}

func TestResolvedAtUsesClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, DualApproval, WithClock(func() time.Time { return fixed }))
	p := f.propose(t, 40)

	out, err := f.machine.Respond(context.Background(), f.lender, p.ID, Reject)

	require.NoError(t, err)
	require.NotNil(t, out.Proposal.ResolvedAt)
	assert.Equal(t, fixed, *out.Proposal.ResolvedAt)
}
