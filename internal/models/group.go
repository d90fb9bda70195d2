package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

type Group struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description,omitempty"`
	CreatedBy   uuid.UUID     `gorm:"type:uuid;not null" json:"created_by"`
	Members     []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type GroupMember struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_member" json:"group_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_member;index" json:"user_id"`
	User     *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role     MemberRole `gorm:"type:varchar(16);not null" json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

func (m *GroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}
