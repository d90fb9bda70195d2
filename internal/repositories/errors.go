package repositories

import (
	"errors"
	"fmt"
	"time"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueViolation recognises duplicate-key errors from either the
// translated GORM error or the raw Postgres error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// notFound maps gorm.ErrRecordNotFound to the given domain error.
func notFound(err error, domainErr error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// updateConsent writes consent columns only if the row still carries prevVersion.
func updateConsent(db *gorm.DB, model interface{}, id uuid.UUID, c *models.Consent, prevVersion int) error {
	result := db.Model(model).
		Where("id = ? AND version = ?", id, prevVersion).
		Updates(map[string]interface{}{
			"status":                c.Status,
			"counterparty_id":       c.CounterpartyID,
			"initiator_approved":    c.InitiatorApproved,
			"counterparty_approved": c.CounterpartyApproved,
			"version":               c.Version,
			"resolved_at":           c.ResolvedAt,
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConcurrentUpdate
	}
	return nil
}
