package repositories

import (
	"context"
	"fmt"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TabRepository interface {
	Create(ctx context.Context, tab *models.Tab) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tab, error)
	// ListForUser returns the owner's tabs, newest first. An empty status matches all.
	ListForUser(ctx context.Context, userID uuid.UUID, status models.TabStatus) ([]models.Tab, error)
	Update(ctx context.Context, tab *models.Tab) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tabRepository struct {
	db *gorm.DB
}

func NewTabRepository(db *gorm.DB) TabRepository {
	return &tabRepository{db: db}
}

func (r *tabRepository) Create(ctx context.Context, tab *models.Tab) error {
	if err := r.db.WithContext(ctx).Create(tab).Error; err != nil {
		return fmt.Errorf("failed to create tab: %w", err)
	}
	return nil
}

func (r *tabRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tab, error) {
	var tab models.Tab
	if err := r.db.WithContext(ctx).First(&tab, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrTabNotFound, "get tab")
	}
	return &tab, nil
}

func (r *tabRepository) ListForUser(ctx context.Context, userID uuid.UUID, status models.TabStatus) ([]models.Tab, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tabs []models.Tab
	if err := q.Order("created_at DESC").Find(&tabs).Error; err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}
	return tabs, nil
}

func (r *tabRepository) Update(ctx context.Context, tab *models.Tab) error {
	result := r.db.WithContext(ctx).Model(tab).
		Select("amount", "description", "person_name", "status").
		Updates(tab)
	if result.Error != nil {
		return fmt.Errorf("failed to update tab: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTabNotFound
	}
	return nil
}

func (r *tabRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Tab{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete tab: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTabNotFound
	}
	return nil
}
