package debttx_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/debttx"
	"brokebesties/internal/testutil"
	"brokebesties/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	svc      *debttx.Service
	events   *testutil.Recorder
	lender   models.Actor
	borrower models.Actor
	outsider models.Actor
	debt     *models.Debt
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rec := &testutil.Recorder{}
	f := &fixture{
		db:       db,
		events:   rec,
		lender:   testutil.CreateUser(t, db, "lender@example.com"),
		borrower: testutil.CreateUser(t, db, "borrower@example.com"),
		outsider: testutil.CreateUser(t, db, "outsider@example.com"),
	}
	group := testutil.CreateGroup(t, db, "flat", f.lender, f.borrower)
	f.debt = testutil.CreateDebt(t, db, group, f.lender, f.borrower, "50")
	f.svc = debttx.NewService(
		repositories.NewDebtTransactionRepository(db),
		repositories.NewDebtRepository(db),
		nil,
		rec,
	)
	return f
}

func (f *fixture) reloadDebt(t *testing.T) models.Debt {
	t.Helper()
	var d models.Debt
	require.NoError(t, f.db.Unscoped().First(&d, "id = ?", f.debt.ID).Error)
	return d
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestModifyNeedsBothParties(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx, err := f.svc.Propose(ctx, f.borrower, f.debt.ID, debttx.ProposeInput{
		Type:           models.DebtTxModify,
		ProposedAmount: amount("40"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, tx.Status)
	assert.True(t, tx.InitiatorApproved)
	assert.False(t, tx.CounterpartyApproved)
	assert.Equal(t, f.lender.ID, tx.CounterpartyID)
	assert.True(t, f.reloadDebt(t).Amount.Equal(decimal.NewFromInt(50)), "debt must not change before approval")

	last := f.events.Last()
	assert.Equal(t, events.Proposed, last.Type)
	assert.Equal(t, f.lender.ID, last.Recipient.ID)

	out, err := f.svc.Respond(ctx, f.lender, tx.ID, true)
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, models.StatusApproved, out.Proposal.Status)
	assert.NotNil(t, out.Proposal.ResolvedAt)
	assert.True(t, f.reloadDebt(t).Amount.Equal(decimal.NewFromInt(40)))

	again, err := f.svc.Respond(ctx, f.lender, tx.ID, true)
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.False(t, again.Applied)
	assert.True(t, f.reloadDebt(t).Amount.Equal(decimal.NewFromInt(40)))
}

func TestConcurrentApprovalsApplyOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx, err := f.svc.Propose(ctx, f.borrower, f.debt.ID, debttx.ProposeInput{
		Type:           models.DebtTxModify,
		ProposedAmount: amount("40"),
	})
	require.NoError(t, err)

	const workers = 5
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := f.svc.Respond(ctx, f.lender, tx.ID, true)
			if !assert.NoError(t, err) {
				return
			}
			if out.Applied {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
	assert.True(t, f.reloadDebt(t).Amount.Equal(decimal.NewFromInt(40)))
}

func TestDropSoftDeletesDebtAndAlert(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	alert := models.Alert{DebtID: &f.debt.ID, LenderID: f.lender.ID, BorrowerID: f.borrower.ID, IsActive: true}
	require.NoError(t, f.db.Create(&alert).Error)

	tx, err := f.svc.Propose(ctx, f.lender, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxDrop})
	require.NoError(t, err)
	out, err := f.svc.Respond(ctx, f.borrower, tx.ID, true)
	require.NoError(t, err)
	require.True(t, out.Applied)

	err = f.db.First(&models.Debt{}, "id = ?", f.debt.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.True(t, f.reloadDebt(t).DeletedAt.Valid)

	var alerts int64
	require.NoError(t, f.db.Model(&models.Alert{}).Where("debt_id = ?", f.debt.ID).Count(&alerts).Error)
	assert.Zero(t, alerts)

	got, err := f.svc.Get(ctx, f.borrower, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestConfirmPaid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx, err := f.svc.Propose(ctx, f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxConfirmPaid})
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, f.lender, tx.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.DebtPaid, f.reloadDebt(t).Status)

	_, err = f.svc.Propose(ctx, f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxConfirmPaid})
	assert.ErrorIs(t, err, apperrors.ErrDebtAlreadyPaid)
}

func TestRejectionLeavesDebtUntouched(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx, err := f.svc.Propose(ctx, f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxDrop})
	require.NoError(t, err)

	out, err := f.svc.Respond(ctx, f.lender, tx.ID, false)
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, models.StatusRejected, out.Proposal.Status)
	assert.False(t, f.reloadDebt(t).DeletedAt.Valid)
	assert.Equal(t, events.Rejected, f.events.Last().Type)

	_, err = f.svc.Respond(ctx, f.lender, tx.ID, true)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))

	again, err := f.svc.Respond(ctx, f.lender, tx.ID, false)
	require.NoError(t, err)
	assert.True(t, again.Replayed)
}

func TestOnlyOnePendingRequestPerDebt(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Propose(ctx, f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxDrop})
	require.NoError(t, err)

	_, err = f.svc.Propose(ctx, f.lender, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxConfirmPaid})
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePending)
}

func TestCancel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx, err := f.svc.Propose(ctx, f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxDrop})
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, f.lender, tx.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotInitiator)

	_, err = f.svc.Cancel(ctx, f.outsider, tx.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotParty)

	out, err := f.svc.Cancel(ctx, f.borrower, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, out.Proposal.Status)
	assert.Equal(t, events.Cancelled, f.events.Last().Type)

	// a new request may follow a cancelled one
	_, err = f.svc.Propose(ctx, f.lender, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxConfirmPaid})
	assert.NoError(t, err)
}

func TestProposeValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	empty := "  "
	long := strings.Repeat("x", validation.MaxDescriptionLength+1)
	longReason := strings.Repeat("r", validation.MaxReasonLength+1)

	tests := []struct {
		name  string
		actor models.Actor
		debt  uuid.UUID
		in    debttx.ProposeInput
		kind  apperrors.Kind
		field string
	}{
		{"unknown kind", f.borrower, f.debt.ID, debttx.ProposeInput{Type: "forgive"}, apperrors.KindValidation, ""},
		{"modify without change", f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxModify}, apperrors.KindValidation, "proposed_amount"},
		{"negative amount", f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxModify, ProposedAmount: amount("-1")}, apperrors.KindValidation, "proposed_amount"},
		{"three decimals", f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxModify, ProposedAmount: amount("10.555")}, apperrors.KindValidation, "proposed_amount"},
		{"amount over limit", f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxModify, ProposedAmount: amount("99999999999999")}, apperrors.KindValidation, "proposed_amount"},
		{"blank description", f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxModify, ProposedDescription: &empty}, apperrors.KindValidation, "proposed_description"},
		{"long description", f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxModify, ProposedDescription: &long}, apperrors.KindValidation, "proposed_description"},
		{"long reason", f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxDrop, Reason: &longReason}, apperrors.KindValidation, "reason"},
		{"outsider", f.outsider, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxDrop}, apperrors.KindForbidden, ""},
		{"missing debt", f.borrower, uuid.New(), debttx.ProposeInput{Type: models.DebtTxDrop}, apperrors.KindNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Propose(ctx, tt.actor, tt.debt, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
			if tt.field != "" {
				de, ok := apperrors.As(err)
				require.True(t, ok)
				assert.Contains(t, de.Fields, tt.field)
			}
		})
	}

	pending, err := f.svc.ListForDebt(ctx, f.lender, f.debt.ID)
	require.NoError(t, err)
	assert.Empty(t, pending, "rejected proposals must not be stored")
}

func TestModifyAppliesOnlyValidAmounts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx, err := f.svc.Propose(ctx, f.borrower, f.debt.ID, debttx.ProposeInput{
		Type:           models.DebtTxModify,
		ProposedAmount: amount("10.55"),
	})
	require.NoError(t, err)

	out, err := f.svc.Respond(ctx, f.lender, tx.ID, true)
	require.NoError(t, err)
	assert.True(t, out.Applied)

	debt := f.reloadDebt(t)
	assert.True(t, debt.Amount.Equal(decimal.RequireFromString("10.55")), debt.Amount.String())
}

func TestPendingInbox(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx, err := f.svc.Propose(ctx, f.borrower, f.debt.ID, debttx.ProposeInput{Type: models.DebtTxDrop})
	require.NoError(t, err)

	list, total, err := f.svc.ListPending(ctx, f.lender, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, tx.ID, list[0].ID)
	assert.True(t, f.svc.NeedsToAct(f.lender, &list[0]))

	n, err := f.svc.PendingCount(ctx, f.borrower)
	require.NoError(t, err)
	assert.Zero(t, n, "proposer already approved")

	n, err = f.svc.PendingCount(ctx, f.lender)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = f.svc.Get(ctx, f.outsider, tx.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotParty)

	history, err := f.svc.ListForDebt(ctx, f.lender, f.debt.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
