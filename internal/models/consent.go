package models

import (
	"time"

	"github.com/google/uuid"
)

type ConsentStatus string

const (
	StatusPending   ConsentStatus = "pending"
	StatusApproved  ConsentStatus = "approved"
	StatusRejected  ConsentStatus = "rejected"
	StatusCancelled ConsentStatus = "cancelled"
)

// Terminal reports whether no further transition can leave this status.
func (s ConsentStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// Consent is the two-party approval state embedded in every proposal record.
// Version increments on every write and guards conditional updates.
type Consent struct {
	Status               ConsentStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	InitiatorID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"initiator_id"`
	CounterpartyID       uuid.UUID     `gorm:"type:uuid;index" json:"counterparty_id"`
	InitiatorApproved    bool          `gorm:"not null" json:"initiator_approved"`
	CounterpartyApproved bool          `gorm:"not null" json:"counterparty_approved"`
	Version              int           `gorm:"not null" json:"-"`
	ResolvedAt           *time.Time    `json:"resolved_at,omitempty"`
}

func (c *Consent) ConsentState() *Consent { return c }
