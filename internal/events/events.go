// Package events carries state-change notifications from services to
// delivery channels.
package events

import (
	"context"
	"errors"
	"log"
	"time"

	"brokebesties/internal/models"

	"github.com/google/uuid"
)

type Type string

const (
	Proposed  Type = "proposed"
	Approved  Type = "approved"
	Rejected  Type = "rejected"
	Cancelled Type = "cancelled"
	Created   Type = "created"
	Removed   Type = "removed"
)

// Subjects name the record an event is about.
const (
	SubjectDebt             = "debt"
	SubjectDebtTransaction  = "debt_transaction"
	SubjectFriend           = "friend"
	SubjectGroupInvite      = "group_invite"
	SubjectRecurringPayment = "recurring_payment"
)

// Event describes one committed state change addressed to one recipient.
type Event struct {
	Type      Type
	Subject   string
	SubjectID uuid.UUID
	Actor     models.Actor
	Recipient models.Party
	// Participants are every party whose inbox the change affects.
	Participants []models.Party
	Summary      string
	At           time.Time
}

// Notifier delivers events. Implementations must not assume the caller
// acts on the returned error beyond logging it.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Fanout delivers to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
var Discard Notifier = NotifierFunc(func(context.Context, Event) error { return nil })

// Send delivers ev on n after the change it describes has committed. Errors
// and panics from n are logged and swallowed.
func Send(ctx context.Context, n Notifier, ev Event) {
	if n == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Notifier panicked on %s %s %s: %v", ev.Subject, ev.SubjectID, ev.Type, r)
		}
	}()
	if err := n.Notify(ctx, ev); err != nil {
		log.Printf("⚠️ Failed to notify %s about %s %s (%s): %v", ev.Recipient.Keys(), ev.Subject, ev.SubjectID, ev.Type, err)
	}
}
