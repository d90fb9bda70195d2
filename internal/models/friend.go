package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Friend is a friend request that becomes the friendship once approved.
// UserLow/UserHigh hold the pair in a fixed order so the pair is unique in
// either direction.
type Friend struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserLow   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair" json:"-"`
	UserHigh  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair" json:"-"`
	Consent   `gorm:"embedded"`
	Requester *User     `gorm:"foreignKey:InitiatorID" json:"requester,omitempty"`
	Recipient *User     `gorm:"foreignKey:CounterpartyID" json:"recipient,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FriendPair orders two user ids the way the pair index stores them.
func FriendPair(a, b uuid.UUID) (low, high uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}

func (f *Friend) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.UserLow, f.UserHigh = FriendPair(f.InitiatorID, f.CounterpartyID)
	return nil
}

func (f *Friend) ProposalID() uuid.UUID { return f.ID }

// Other returns the friend of userID in this relationship.
func (f *Friend) Other(userID uuid.UUID) uuid.UUID {
	if f.InitiatorID == userID {
		return f.CounterpartyID
	}
	return f.InitiatorID
}
