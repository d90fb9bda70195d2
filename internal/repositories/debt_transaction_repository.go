package repositories

import (
	"context"
	"fmt"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DebtTransactionRepository stores proposals against debts and applies
// approved ones.
type DebtTransactionRepository interface {
	Atomic(ctx context.Context, fn func(tx DebtTransactionRepository) error) error
	LockProposal(ctx context.Context, id uuid.UUID) (*models.DebtTransaction, error)
	FindPendingFor(ctx context.Context, draft *models.DebtTransaction) (*models.DebtTransaction, bool, error)
	CreateProposal(ctx context.Context, t *models.DebtTransaction) error
	UpdateProposal(ctx context.Context, t *models.DebtTransaction, prevVersion int) error
	ApplyChangeAndResolve(ctx context.Context, t *models.DebtTransaction, prevVersion int) error

	LockDebt(ctx context.Context, debtID uuid.UUID) (*models.Debt, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DebtTransaction, error)
	ListForDebt(ctx context.Context, debtID uuid.UUID) ([]models.DebtTransaction, error)
	// ListAwaiting returns pending proposals that still need userID's approval.
	ListAwaiting(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.DebtTransaction, int64, error)
	CountAwaiting(ctx context.Context, userID uuid.UUID) (int64, error)
}

type debtTransactionRepository struct {
	db *gorm.DB
}

func NewDebtTransactionRepository(db *gorm.DB) DebtTransactionRepository {
	return &debtTransactionRepository{db: db}
}

func (r *debtTransactionRepository) Atomic(ctx context.Context, fn func(tx DebtTransactionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&debtTransactionRepository{db: tx})
	})
}

func (r *debtTransactionRepository) LockProposal(ctx context.Context, id uuid.UUID) (*models.DebtTransaction, error) {
	var t models.DebtTransaction
	if err := r.db.WithContext(ctx).Clauses(forUpdate()).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrProposalNotFound, "lock debt request")
	}
	return &t, nil
}

func (r *debtTransactionRepository) FindPendingFor(ctx context.Context, draft *models.DebtTransaction) (*models.DebtTransaction, bool, error) {
	var t models.DebtTransaction
	err := r.db.WithContext(ctx).
		Where("debt_id = ? AND status = ?", draft.DebtID, models.StatusPending).
		Limit(1).
		Find(&t).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to find pending debt request: %w", err)
	}
	if t.ID == uuid.Nil {
		return nil, false, nil
	}
	return &t, true, nil
}

func (r *debtTransactionRepository) CreateProposal(ctx context.Context, t *models.DebtTransaction) error {
	if err := r.db.WithContext(ctx).Omit("Debt").Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicatePending
		}
		return fmt.Errorf("failed to create debt request: %w", err)
	}
	return nil
}

func (r *debtTransactionRepository) UpdateProposal(ctx context.Context, t *models.DebtTransaction, prevVersion int) error {
	return updateConsent(r.db.WithContext(ctx), &models.DebtTransaction{}, t.ID, &t.Consent, prevVersion)
}

// ApplyChangeAndResolve resolves the request and mutates its debt in one
// transaction (a savepoint when already inside one).
func (r *debtTransactionRepository) ApplyChangeAndResolve(ctx context.Context, t *models.DebtTransaction, prevVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateConsent(tx, &models.DebtTransaction{}, t.ID, &t.Consent, prevVersion); err != nil {
			return err
		}

		var result *gorm.DB
		switch t.Type {
		case models.DebtTxDrop:
			if err := tx.Where("debt_id = ?", t.DebtID).Delete(&models.Alert{}).Error; err != nil {
				return fmt.Errorf("failed to delete debt alert: %w", err)
			}
			result = tx.Delete(&models.Debt{}, "id = ?", t.DebtID)
		case models.DebtTxModify:
			updates := map[string]interface{}{}
			if t.ProposedAmount != nil {
				updates["amount"] = *t.ProposedAmount
			}
			if t.ProposedDescription != nil {
				updates["description"] = *t.ProposedDescription
			}
			result = tx.Model(&models.Debt{}).Where("id = ?", t.DebtID).Updates(updates)
		case models.DebtTxConfirmPaid:
			result = tx.Model(&models.Debt{}).Where("id = ?", t.DebtID).Update("status", models.DebtPaid)
		default:
			return apperrors.ErrInvalidKind
		}

		if result.Error != nil {
			return fmt.Errorf("failed to apply %s to debt: %w", t.Type, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrDebtNotFound
		}
		return nil
	})
}

func (r *debtTransactionRepository) LockDebt(ctx context.Context, debtID uuid.UUID) (*models.Debt, error) {
	return lockDebt(r.db.WithContext(ctx), debtID)
}

func (r *debtTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DebtTransaction, error) {
	var t models.DebtTransaction
	err := r.db.WithContext(ctx).
		Preload("Debt", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrProposalNotFound, "get debt request")
	}
	return &t, nil
}

func (r *debtTransactionRepository) ListForDebt(ctx context.Context, debtID uuid.UUID) ([]models.DebtTransaction, error) {
	var list []models.DebtTransaction
	err := r.db.WithContext(ctx).
		Where("debt_id = ?", debtID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list debt requests: %w", err)
	}
	return list, nil
}

func (r *debtTransactionRepository) awaiting(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.DebtTransaction{}).
		Where("status = ?", models.StatusPending).
		Where("((initiator_id = ? AND initiator_approved = ?) OR (counterparty_id = ? AND counterparty_approved = ?))",
			userID, false, userID, false)
}

func (r *debtTransactionRepository) ListAwaiting(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.DebtTransaction, int64, error) {
	var total int64
	if err := r.awaiting(ctx, userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending debt requests: %w", err)
	}

	var list []models.DebtTransaction
	q := r.awaiting(ctx, userID).Preload("Debt").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list pending debt requests: %w", err)
	}
	return list, total, nil
}

func (r *debtTransactionRepository) CountAwaiting(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	if err := r.awaiting(ctx, userID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending debt requests: %w", err)
	}
	return total, nil
}
