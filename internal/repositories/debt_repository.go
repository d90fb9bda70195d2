package repositories

import (
	"context"
	"fmt"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DebtFilter narrows ListForUser. Zero values match everything.
type DebtFilter struct {
	GroupID uuid.UUID
	Status  models.DebtStatus
	// Role is "lender", "borrower" or empty for both.
	Role   string
	Limit  int
	Offset int
}

type DebtRepository interface {
	Atomic(ctx context.Context, fn func(tx DebtRepository) error) error
	Create(ctx context.Context, debt *models.Debt) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Debt, error)
	// LockByID loads the debt with a row lock held until commit.
	LockByID(ctx context.Context, id uuid.UUID) (*models.Debt, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filter DebtFilter) ([]models.Debt, int64, error)
	Update(ctx context.Context, debt *models.Debt) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasPendingTransaction(ctx context.Context, debtID uuid.UUID) (bool, error)
	IsGroupMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

type debtRepository struct {
	db *gorm.DB
}

func NewDebtRepository(db *gorm.DB) DebtRepository {
	return &debtRepository{db: db}
}

func (r *debtRepository) Atomic(ctx context.Context, fn func(tx DebtRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&debtRepository{db: tx})
	})
}

func (r *debtRepository) Create(ctx context.Context, debt *models.Debt) error {
	if err := r.db.WithContext(ctx).Create(debt).Error; err != nil {
		return fmt.Errorf("failed to create debt: %w", err)
	}
	return nil
}

func (r *debtRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Debt, error) {
	var debt models.Debt
	if err := r.db.WithContext(ctx).First(&debt, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrDebtNotFound, "get debt")
	}
	return &debt, nil
}

func (r *debtRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Debt, error) {
	return lockDebt(r.db.WithContext(ctx), id)
}

func (r *debtRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter DebtFilter) ([]models.Debt, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Debt{})
	switch filter.Role {
	case "lender":
		q = q.Where("lender_id = ?", userID)
	case "borrower":
		q = q.Where("borrower_id = ?", userID)
	default:
		q = q.Where("(lender_id = ? OR borrower_id = ?)", userID, userID)
	}
	if filter.GroupID != uuid.Nil {
		q = q.Where("group_id = ?", filter.GroupID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count debts: %w", err)
	}

	var debts []models.Debt
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Order("created_at DESC").Find(&debts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list debts: %w", err)
	}
	return debts, total, nil
}

func (r *debtRepository) Update(ctx context.Context, debt *models.Debt) error {
	result := r.db.WithContext(ctx).Model(debt).Select("amount", "description", "status").Updates(debt)
	if result.Error != nil {
		return fmt.Errorf("failed to update debt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrDebtNotFound
	}
	return nil
}

func (r *debtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("debt_id = ?", id).Delete(&models.Alert{}).Error; err != nil {
			return fmt.Errorf("failed to delete debt alert: %w", err)
		}
		result := tx.Delete(&models.Debt{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete debt: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrDebtNotFound
		}
		return nil
	})
}

func (r *debtRepository) HasPendingTransaction(ctx context.Context, debtID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DebtTransaction{}).
		Where("debt_id = ? AND status = ?", debtID, models.StatusPending).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check pending requests: %w", err)
	}
	return count > 0, nil
}

func (r *debtRepository) IsGroupMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return isGroupMember(r.db.WithContext(ctx), groupID, userID)
}

func lockDebt(db *gorm.DB, id uuid.UUID) (*models.Debt, error) {
	var debt models.Debt
	if err := db.Clauses(forUpdate()).First(&debt, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrDebtNotFound, "lock debt")
	}
	return &debt, nil
}
