package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DebtStatus string

const (
	DebtUnpaid DebtStatus = "unpaid"
	DebtPaid   DebtStatus = "paid"
)

// Debt records that the borrower owes the lender Amount within a group.
// Dropped debts are soft deleted so their proposals keep a valid reference.
type Debt struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"group_id"`
	LenderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"lender_id"`
	BorrowerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"borrower_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `json:"description"`
	Status      DebtStatus      `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (d *Debt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DebtUnpaid
	}
	return nil
}

func (d *Debt) IsParty(userID uuid.UUID) bool {
	return userID == d.LenderID || userID == d.BorrowerID
}

// OtherParty returns the lender for the borrower and vice versa.
func (d *Debt) OtherParty(userID uuid.UUID) uuid.UUID {
	if userID == d.LenderID {
		return d.BorrowerID
	}
	return d.LenderID
}
