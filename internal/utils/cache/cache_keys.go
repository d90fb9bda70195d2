package cache

import (
	"fmt"
	"strings"
)

type EntityType string

const (
	EntityUser  EntityType = "user"
	EntityInbox EntityType = "inbox"
)

type KeyType string

const (
	KeyID    KeyType = "id"
	KeyEmail KeyType = "email"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// InboxKey is the pending-count key for one party and one request type.
// partyKey is a user id or a lower-cased email.
func InboxKey(subject, partyKey string) string {
	keyType := KeyID
	if strings.Contains(partyKey, "@") {
		keyType = KeyEmail
	}
	return GenerateKey(EntityInbox, KeyType(subject+":"+string(keyType)), partyKey)
}
