package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserClaims are the access-token claims issued by the identity provider.
// The subject is the user's UUID.
type UserClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// Actor converts verified claims into the caller identity.
func (c *UserClaims) Actor() (Actor, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
	}
	return Actor{ID: id, Email: c.Email, Name: c.DisplayName()}, nil
}

// DisplayName picks the best available name from the provider metadata.
func (c *UserClaims) DisplayName() string {
	for _, key := range []string{"full_name", "name"} {
		if v, ok := c.UserMetadata[key].(string); ok && v != "" {
			return v
		}
	}
	return c.Email
}
