package repositories

import (
	"context"
	"fmt"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendRepository stores friend requests. An approved request is the friendship.
type FriendRepository interface {
	Atomic(ctx context.Context, fn func(tx FriendRepository) error) error
	LockProposal(ctx context.Context, id uuid.UUID) (*models.Friend, error)
	FindPendingFor(ctx context.Context, draft *models.Friend) (*models.Friend, bool, error)
	CreateProposal(ctx context.Context, f *models.Friend) error
	UpdateProposal(ctx context.Context, f *models.Friend, prevVersion int) error
	ApplyChangeAndResolve(ctx context.Context, f *models.Friend, prevVersion int) error

	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FindPair returns the row for two users in either direction.
	FindPair(ctx context.Context, a, b uuid.UUID) (*models.Friend, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Friend, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAccepted(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Friend, int64, error)
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
	ListOutgoing(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
	CountIncoming(ctx context.Context, userID uuid.UUID) (int64, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Atomic(ctx context.Context, fn func(tx FriendRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&friendRepository{db: tx})
	})
}

func (r *friendRepository) LockProposal(ctx context.Context, id uuid.UUID) (*models.Friend, error) {
	var f models.Friend
	if err := r.db.WithContext(ctx).Clauses(forUpdate()).First(&f, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrProposalNotFound, "lock friend request")
	}
	return &f, nil
}

func (r *friendRepository) FindPendingFor(ctx context.Context, draft *models.Friend) (*models.Friend, bool, error) {
	low, high := models.FriendPair(draft.InitiatorID, draft.CounterpartyID)
	var f models.Friend
	err := r.db.WithContext(ctx).
		Clauses(forUpdate()).
		Where("user_low = ? AND user_high = ? AND status = ?", low, high, models.StatusPending).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to find pending friend request: %w", err)
	}
	if f.ID == uuid.Nil {
		return nil, false, nil
	}
	return &f, true, nil
}

func (r *friendRepository) CreateProposal(ctx context.Context, f *models.Friend) error {
	if err := r.db.WithContext(ctx).Omit("Requester", "Recipient").Create(f).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicatePending
		}
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

func (r *friendRepository) UpdateProposal(ctx context.Context, f *models.Friend, prevVersion int) error {
	return updateConsent(r.db.WithContext(ctx), &models.Friend{}, f.ID, &f.Consent, prevVersion)
}

// ApplyChangeAndResolve marks the request accepted. The accepted row is the
// friendship, so there is nothing else to write.
func (r *friendRepository) ApplyChangeAndResolve(ctx context.Context, f *models.Friend, prevVersion int) error {
	return r.UpdateProposal(ctx, f, prevVersion)
}

func (r *friendRepository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound, "get user")
	}
	return &user, nil
}

func (r *friendRepository) FindPair(ctx context.Context, a, b uuid.UUID) (*models.Friend, bool, error) {
	low, high := models.FriendPair(a, b)
	var f models.Friend
	err := r.db.WithContext(ctx).
		Where("user_low = ? AND user_high = ?", low, high).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to find friendship: %w", err)
	}
	if f.ID == uuid.Nil {
		return nil, false, nil
	}
	return &f, true, nil
}

func (r *friendRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Friend, error) {
	var f models.Friend
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Recipient").
		First(&f, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrFriendshipNotFound, "get friendship")
	}
	return &f, nil
}

func (r *friendRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Friend{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete friendship: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrFriendshipNotFound
	}
	return nil
}

func (r *friendRepository) ListAccepted(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Friend, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Friend{}).
		Where("status = ?", models.StatusApproved).
		Where("(initiator_id = ? OR counterparty_id = ?)", userID, userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count friends: %w", err)
	}

	var list []models.Friend
	page := q.Preload("Requester").Preload("Recipient").Order("resolved_at DESC")
	if limit > 0 {
		page = page.Limit(limit).Offset(offset)
	}
	if err := page.Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list friends: %w", err)
	}
	return list, total, nil
}

func (r *friendRepository) ListIncoming(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	return r.listPending(ctx, "counterparty_id = ?", userID)
}

func (r *friendRepository) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	return r.listPending(ctx, "initiator_id = ?", userID)
}

func (r *friendRepository) listPending(ctx context.Context, cond string, userID uuid.UUID) ([]models.Friend, error) {
	var list []models.Friend
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Recipient").
		Where("status = ?", models.StatusPending).
		Where(cond, userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	return list, nil
}

func (r *friendRepository) CountIncoming(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Friend{}).
		Where("status = ? AND counterparty_id = ?", models.StatusPending, userID).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count friend requests: %w", err)
	}
	return total, nil
}
