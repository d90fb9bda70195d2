package repositories

import (
	"context"
	"fmt"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecurringFilter narrows ListForUser. Zero values match everything.
type RecurringFilter struct {
	// Role is "lending", "borrowing" or empty for both.
	Role   string
	Status models.RecurringStatus
}

type RecurringPaymentRepository interface {
	// Create stores the payment and its borrowers in one transaction.
	Create(ctx context.Context, p *models.RecurringPayment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.RecurringPayment, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filter RecurringFilter) ([]models.RecurringPayment, error)
	Update(ctx context.Context, p *models.RecurringPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type recurringPaymentRepository struct {
	db *gorm.DB
}

func NewRecurringPaymentRepository(db *gorm.DB) RecurringPaymentRepository {
	return &recurringPaymentRepository{db: db}
}

func (r *recurringPaymentRepository) Create(ctx context.Context, p *models.RecurringPayment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lender", "Borrowers").Create(p).Error; err != nil {
			return err
		}
		for i := range p.Borrowers {
			p.Borrowers[i].RecurringPaymentID = p.ID
			if err := tx.Omit("User").Create(&p.Borrowers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Validation(map[string]string{"borrowers": "cannot add the same borrower twice"})
		}
		return fmt.Errorf("failed to create recurring payment: %w", err)
	}
	return nil
}

func (r *recurringPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.RecurringPayment, error) {
	var p models.RecurringPayment
	err := r.db.WithContext(ctx).
		Preload("Lender").
		Preload("Borrowers.User").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrRecurringPaymentNotFound, "get recurring payment")
	}
	return &p, nil
}

func (r *recurringPaymentRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter RecurringFilter) ([]models.RecurringPayment, error) {
	borrowing := r.db.Model(&models.RecurringPaymentBorrower{}).
		Select("recurring_payment_id").
		Where("user_id = ?", userID)

	q := r.db.WithContext(ctx).Model(&models.RecurringPayment{})
	switch filter.Role {
	case "lending":
		q = q.Where("lender_id = ?", userID)
	case "borrowing":
		q = q.Where("id IN (?)", borrowing)
	default:
		q = q.Where("(lender_id = ? OR id IN (?))", userID, borrowing)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var payments []models.RecurringPayment
	err := q.Preload("Lender").
		Preload("Borrowers.User").
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring payments: %w", err)
	}
	return payments, nil
}

func (r *recurringPaymentRepository) Update(ctx context.Context, p *models.RecurringPayment) error {
	result := r.db.WithContext(ctx).Model(p).
		Select("amount", "description", "frequency_days", "status").
		Updates(p)
	if result.Error != nil {
		return fmt.Errorf("failed to update recurring payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRecurringPaymentNotFound
	}
	return nil
}

func (r *recurringPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recurring_payment_id = ?", id).Delete(&models.Alert{}).Error; err != nil {
			return fmt.Errorf("failed to delete recurring payment alert: %w", err)
		}
		if err := tx.Where("recurring_payment_id = ?", id).Delete(&models.RecurringPaymentBorrower{}).Error; err != nil {
			return fmt.Errorf("failed to delete recurring payment borrowers: %w", err)
		}
		result := tx.Delete(&models.RecurringPayment{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete recurring payment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrRecurringPaymentNotFound
		}
		return nil
	})
}
