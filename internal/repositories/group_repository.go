package repositories

import (
	"context"
	"fmt"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupRepository interface {
	// Create stores the group and makes creator its admin.
	Create(ctx context.Context, group *models.Group, creator uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Group, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group, creator uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group.CreatedBy = creator
		if err := tx.Omit("Members").Create(group).Error; err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		member := models.GroupMember{GroupID: group.ID, UserID: creator, Role: models.RoleAdmin}
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("failed to add group admin: %w", err)
		}
		group.Members = []models.GroupMember{member}
		return nil
	})
}

func (r *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).
		Preload("Members.User").
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrGroupNotFound, "get group")
	}
	return &group, nil
}

func (r *groupRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Order("groups.created_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return isGroupMember(r.db.WithContext(ctx), groupID, userID)
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("group_id = ?", groupID).
		Order("joined_at").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func isGroupMember(db *gorm.DB, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}
