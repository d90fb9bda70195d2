package models

import (
	"strings"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Party is a fixed role holder on a subject. Invitees may be known only by
// email until they sign up, so ID can be uuid.Nil.
type Party struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email,omitempty"`
}

// Matches reports whether the actor holds this role.
func (p Party) Matches(a Actor) bool {
	if p.ID != uuid.Nil && p.ID == a.ID {
		return true
	}
	return p.Email != "" && a.Email != "" && strings.EqualFold(p.Email, a.Email)
}

// Keys returns every identifier the party is addressable by.
func (p Party) Keys() []string {
	var keys []string
	if p.ID != uuid.Nil {
		keys = append(keys, p.ID.String())
	}
	if p.Email != "" {
		keys = append(keys, strings.ToLower(p.Email))
	}
	return keys
}
