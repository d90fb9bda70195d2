package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecurringStatus string

const (
	RecurringActive   RecurringStatus = "active"
	RecurringInactive RecurringStatus = "inactive"
)

func (s RecurringStatus) Valid() bool {
	return s == RecurringActive || s == RecurringInactive
}

// RecurringPayment is an amount the lender covers every FrequencyDays and
// splits between borrowers by percentage.
type RecurringPayment struct {
	ID            uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	LenderID      uuid.UUID                  `gorm:"type:uuid;not null;index" json:"lender_id"`
	Lender        *User                      `gorm:"foreignKey:LenderID" json:"lender,omitempty"`
	Amount        decimal.Decimal            `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description   *string                    `json:"description,omitempty"`
	FrequencyDays int                        `gorm:"not null" json:"frequency_days"`
	Status        RecurringStatus            `gorm:"type:varchar(16);not null;index" json:"status"`
	Borrowers     []RecurringPaymentBorrower `gorm:"foreignKey:RecurringPaymentID;constraint:OnDelete:CASCADE" json:"borrowers"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// RecurringPaymentBorrower is one borrower's share of a recurring payment.
type RecurringPaymentBorrower struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RecurringPaymentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recurring_borrower" json:"recurring_payment_id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recurring_borrower;index" json:"user_id"`
	User               *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SplitPercentage    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"split_percentage"`
}

func (p *RecurringPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = RecurringActive
	}
	return nil
}

func (b *RecurringPaymentBorrower) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (p *RecurringPayment) IsBorrower(userID uuid.UUID) bool {
	for _, b := range p.Borrowers {
		if b.UserID == userID {
			return true
		}
	}
	return false
}

func (p *RecurringPayment) IsParty(userID uuid.UUID) bool {
	return p.LenderID == userID || p.IsBorrower(userID)
}

// Share is what userID owes per period, rounded to cents.
func (p *RecurringPayment) Share(userID uuid.UUID) decimal.Decimal {
	for _, b := range p.Borrowers {
		if b.UserID == userID {
			return p.Amount.Mul(b.SplitPercentage).Div(decimal.NewFromInt(100)).Round(2)
		}
	}
	return decimal.Zero
}
