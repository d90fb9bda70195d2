package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DebtTransactionType string

const (
	DebtTxDrop        DebtTransactionType = "drop"
	DebtTxModify      DebtTransactionType = "modify"
	DebtTxConfirmPaid DebtTransactionType = "confirm_paid"
)

func (t DebtTransactionType) Valid() bool {
	switch t {
	case DebtTxDrop, DebtTxModify, DebtTxConfirmPaid:
		return true
	}
	return false
}

// DebtTransaction is a proposed change to a debt that both parties must approve.
// The partial unique index allows at most one pending proposal per debt.
type DebtTransaction struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	DebtID              uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_debt_tx_pending,where:status = 'pending'" json:"debt_id"`
	Debt                *Debt               `gorm:"foreignKey:DebtID" json:"debt,omitempty"`
	Type                DebtTransactionType `gorm:"type:varchar(16);not null" json:"type"`
	ProposedAmount      *decimal.Decimal    `gorm:"type:decimal(12,2)" json:"proposed_amount,omitempty"`
	ProposedDescription *string             `json:"proposed_description,omitempty"`
	Reason              *string             `json:"reason,omitempty"`
	Consent             `gorm:"embedded"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (t *DebtTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *DebtTransaction) ProposalID() uuid.UUID { return t.ID }
