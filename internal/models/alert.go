package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert is a lender's reminder attached to either a debt or a recurring
// payment. Deadlines are passive data.
type Alert struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	DebtID             *uuid.UUID        `gorm:"type:uuid;uniqueIndex" json:"debt_id,omitempty"`
	Debt               *Debt             `gorm:"foreignKey:DebtID" json:"debt,omitempty"`
	RecurringPaymentID *uuid.UUID        `gorm:"type:uuid;uniqueIndex" json:"recurring_payment_id,omitempty"`
	RecurringPayment   *RecurringPayment `gorm:"foreignKey:RecurringPaymentID" json:"recurring_payment,omitempty"`
	LenderID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"lender_id"`
	BorrowerID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"borrower_id"`
	Message            *string           `json:"message,omitempty"`
	Deadline           *time.Time        `json:"deadline,omitempty"`
	IsActive           bool              `gorm:"not null" json:"is_active"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
