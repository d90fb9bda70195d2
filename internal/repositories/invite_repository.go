package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InviteRepository stores group invites. Approving one adds the invitee to the group.
type InviteRepository interface {
	Atomic(ctx context.Context, fn func(tx InviteRepository) error) error
	LockProposal(ctx context.Context, id uuid.UUID) (*models.GroupInvite, error)
	FindPendingFor(ctx context.Context, draft *models.GroupInvite) (*models.GroupInvite, bool, error)
	CreateProposal(ctx context.Context, inv *models.GroupInvite) error
	UpdateProposal(ctx context.Context, inv *models.GroupInvite, prevVersion int) error
	ApplyChangeAndResolve(ctx context.Context, inv *models.GroupInvite, prevVersion int) error

	FindGroup(ctx context.Context, id uuid.UUID) (*models.Group, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, bool, error)
	// DeleteResolved removes a resolved invite so the address can be invited again.
	DeleteResolved(ctx context.Context, groupID uuid.UUID, email string) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.GroupInvite, error)
	ListIncoming(ctx context.Context, email string) ([]models.GroupInvite, error)
	ListForGroup(ctx context.Context, groupID uuid.UUID) ([]models.GroupInvite, error)
	CountIncoming(ctx context.Context, email string) (int64, error)
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Atomic(ctx context.Context, fn func(tx InviteRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&inviteRepository{db: tx})
	})
}

func (r *inviteRepository) LockProposal(ctx context.Context, id uuid.UUID) (*models.GroupInvite, error) {
	var inv models.GroupInvite
	if err := r.db.WithContext(ctx).Clauses(forUpdate()).First(&inv, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrProposalNotFound, "lock invite")
	}
	return &inv, nil
}

func (r *inviteRepository) FindPendingFor(ctx context.Context, draft *models.GroupInvite) (*models.GroupInvite, bool, error) {
	var inv models.GroupInvite
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND invited_email = ? AND status = ?", draft.GroupID, normalizeEmail(draft.InvitedEmail), models.StatusPending).
		Limit(1).
		Find(&inv).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to find pending invite: %w", err)
	}
	if inv.ID == uuid.Nil {
		return nil, false, nil
	}
	return &inv, true, nil
}

func (r *inviteRepository) CreateProposal(ctx context.Context, inv *models.GroupInvite) error {
	if err := r.db.WithContext(ctx).Omit("Group").Create(inv).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicatePending
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

func (r *inviteRepository) UpdateProposal(ctx context.Context, inv *models.GroupInvite, prevVersion int) error {
	return updateConsent(r.db.WithContext(ctx), &models.GroupInvite{}, inv.ID, &inv.Consent, prevVersion)
}

// ApplyChangeAndResolve binds the invite to the invitee's account, accepts it
// and creates the membership in one transaction.
func (r *inviteRepository) ApplyChangeAndResolve(ctx context.Context, inv *models.GroupInvite, prevVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if inv.CounterpartyID == uuid.Nil {
			user, err := findUserByEmail(tx, inv.InvitedEmail)
			if err != nil {
				return err
			}
			inv.CounterpartyID = user.ID
		}
		if err := updateConsent(tx, &models.GroupInvite{}, inv.ID, &inv.Consent, prevVersion); err != nil {
			return err
		}
		member := models.GroupMember{GroupID: inv.GroupID, UserID: inv.CounterpartyID, Role: models.RoleMember}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&member).Error
		if err != nil {
			return fmt.Errorf("failed to add group member: %w", err)
		}
		return nil
	})
}

func (r *inviteRepository) FindGroup(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrGroupNotFound, "get group")
	}
	return &group, nil
}

func (r *inviteRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return isGroupMember(r.db.WithContext(ctx), groupID, userID)
}

func (r *inviteRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	user, err := findUserByEmail(r.db.WithContext(ctx), email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (r *inviteRepository) DeleteResolved(ctx context.Context, groupID uuid.UUID, email string) error {
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND invited_email = ? AND status <> ?", groupID, normalizeEmail(email), models.StatusPending).
		Delete(&models.GroupInvite{}).Error
	if err != nil {
		return fmt.Errorf("failed to clean up invites: %w", err)
	}
	return nil
}

func (r *inviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.GroupInvite, error) {
	var inv models.GroupInvite
	if err := r.db.WithContext(ctx).Preload("Group").First(&inv, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrProposalNotFound, "get invite")
	}
	return &inv, nil
}

func (r *inviteRepository) ListIncoming(ctx context.Context, email string) ([]models.GroupInvite, error) {
	var list []models.GroupInvite
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("invited_email = ? AND status = ?", normalizeEmail(email), models.StatusPending).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return list, nil
}

func (r *inviteRepository) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]models.GroupInvite, error) {
	var list []models.GroupInvite
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list group invites: %w", err)
	}
	return list, nil
}

func (r *inviteRepository) CountIncoming(ctx context.Context, email string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.GroupInvite{}).
		Where("invited_email = ? AND status = ?", normalizeEmail(email), models.StatusPending).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count invites: %w", err)
	}
	return total, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
