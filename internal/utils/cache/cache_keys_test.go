package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInboxKey(t *testing.T) {
	tests := []struct {
		subject, party, want string
	}{
		{"friend", "4b7c0a56-8f2e-4c53-9d0f-1f1f9b3c2a10", "inbox:friend:id:4b7c0a56-8f2e-4c53-9d0f-1f1f9b3c2a10"},
		{"group_invite", "pat@example.com", "inbox:group_invite:email:pat@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, InboxKey(tt.subject, tt.party))
		})
	}
}
