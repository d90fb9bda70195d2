package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TabStatus string

const (
	TabLending   TabStatus = "lending"
	TabBorrowing TabStatus = "borrowing"
	TabPaid      TabStatus = "paid"
)

func (s TabStatus) Valid() bool {
	switch s {
	case TabLending, TabBorrowing, TabPaid:
		return true
	}
	return false
}

// Tab is a private note of money owed to or by someone outside the app.
// Only its owner ever sees it.
type Tab struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `gorm:"not null" json:"description"`
	PersonName  string          `gorm:"not null" json:"person_name"`
	Status      TabStatus       `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t *Tab) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TabBorrowing
	}
	return nil
}
