package repositories

import (
	"context"
	"fmt"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *models.Alert) error {
	if err := r.db.WithContext(ctx).Omit("Debt", "RecurringPayment").Create(alert).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlertExists
		}
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (r *alertRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.WithContext(ctx).Preload("Debt").Preload("RecurringPayment").First(&alert, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrAlertNotFound, "get alert")
	}
	return &alert, nil
}

func (r *alertRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.WithContext(ctx).
		Preload("Debt").
		Preload("RecurringPayment").
		Where("lender_id = ? OR borrower_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) Update(ctx context.Context, alert *models.Alert) error {
	result := r.db.WithContext(ctx).Model(alert).
		Select("message", "deadline", "is_active").
		Updates(alert)
	if result.Error != nil {
		return fmt.Errorf("failed to update alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}

func (r *alertRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Alert{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}
