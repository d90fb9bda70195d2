package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupInvite asks InvitedEmail to join a group. CounterpartyID is filled in
// once the invitee has an account.
type GroupInvite struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_invite_group_email" json:"group_id"`
	Group        *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	InvitedEmail string    `gorm:"not null;uniqueIndex:idx_invite_group_email" json:"invited_email"`
	Consent      `gorm:"embedded"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (i *GroupInvite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.InvitedEmail = strings.ToLower(strings.TrimSpace(i.InvitedEmail))
	return nil
}

func (i *GroupInvite) ProposalID() uuid.UUID { return i.ID }
