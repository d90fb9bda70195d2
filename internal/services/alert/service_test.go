package alert_test

import (
	"context"
	"testing"
	"time"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/alert"
	"brokebesties/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := alert.NewService(repositories.NewAlertRepository(db), repositories.NewDebtRepository(db), repositories.NewRecurringPaymentRepository(db))
	ctx := context.Background()

	lender := testutil.CreateUser(t, db, "lender@example.com")
	borrower := testutil.CreateUser(t, db, "borrower@example.com")
	outsider := testutil.CreateUser(t, db, "out@example.com")
	g := testutil.CreateGroup(t, db, "g", lender, borrower)
	debt := testutil.CreateDebt(t, db, g, lender, borrower, "20")

	msg := "pay me back"
	deadline := time.Now().Add(48 * time.Hour)

	_, err := svc.Create(ctx, borrower, alert.CreateInput{DebtID: &debt.ID, Message: &msg})
	assert.ErrorIs(t, err, apperrors.ErrNotLender)

	a, err := svc.Create(ctx, lender, alert.CreateInput{DebtID: &debt.ID, Message: &msg, Deadline: &deadline})
	require.NoError(t, err)
	assert.True(t, a.IsActive)
	assert.Equal(t, borrower.ID, a.BorrowerID)

	_, err = svc.Create(ctx, lender, alert.CreateInput{DebtID: &debt.ID})
	assert.ErrorIs(t, err, apperrors.ErrAlertExists)

	_, err = svc.Create(ctx, lender, alert.CreateInput{Message: &msg})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	got, err := svc.Get(ctx, borrower, a.ID)
	require.NoError(t, err)
	assert.Equal(t, msg, *got.Message)
	_, err = svc.Get(ctx, outsider, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotParty)

	off := false
	_, err = svc.Update(ctx, borrower, a.ID, alert.UpdateInput{IsActive: &off})
	assert.ErrorIs(t, err, apperrors.ErrNotLender)
	updated, err := svc.Update(ctx, lender, a.ID, alert.UpdateInput{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	list, err := svc.ListForUser(ctx, borrower)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, lender, a.ID))
	_, err = svc.Get(ctx, lender, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlertNotFound)
}
