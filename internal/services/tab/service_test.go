package tab_test

import (
	"context"
	"testing"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/tab"
	"brokebesties/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := tab.NewService(repositories.NewTabRepository(db))
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")

	created, err := svc.Create(ctx, owner, tab.CreateInput{
		Amount:      decimal.RequireFromString("12.50"),
		Description: "  concert tickets ",
		PersonName:  " Sam ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TabBorrowing, created.Status)
	assert.Equal(t, "concert tickets", created.Description)
	assert.Equal(t, "Sam", created.PersonName)

	_, err = svc.Get(ctx, other, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrTabNotFound)
	paid := models.TabPaid
	_, err = svc.Update(ctx, other, created.ID, tab.UpdateInput{Status: &paid})
	assert.ErrorIs(t, err, apperrors.ErrTabNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, other, created.ID), apperrors.ErrTabNotFound)

	updated, err := svc.Update(ctx, owner, created.ID, tab.UpdateInput{Status: &paid})
	require.NoError(t, err)
	assert.Equal(t, models.TabPaid, updated.Status)

	list, err := svc.List(ctx, owner, models.TabPaid)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = svc.List(ctx, owner, models.TabLending)
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = svc.List(ctx, other, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))
	_, err = svc.Get(ctx, owner, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrTabNotFound)
}

func TestTabValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := tab.NewService(repositories.NewTabRepository(db))
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@example.com")

	tests := []struct {
		name  string
		in    tab.CreateInput
		field string
	}{
		{"zero amount", tab.CreateInput{Amount: decimal.Zero, Description: "x", PersonName: "Sam"}, "amount"},
		{"blank description", tab.CreateInput{Amount: decimal.NewFromInt(1), Description: "  ", PersonName: "Sam"}, "description"},
		{"blank person", tab.CreateInput{Amount: decimal.NewFromInt(1), Description: "x", PersonName: ""}, "person_name"},
		{"unknown status", tab.CreateInput{Amount: decimal.NewFromInt(1), Description: "x", PersonName: "Sam", Status: "owed"}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, owner, tt.in)
			de, ok := apperrors.As(err)
			require.True(t, ok, err)
			assert.Contains(t, de.Fields, tt.field)
		})
	}

	_, err := svc.List(ctx, owner, "owed")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
