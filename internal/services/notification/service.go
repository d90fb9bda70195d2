// Package notification delivers events to users over email, push and
// Telegram. Delivery is asynchronous and failures are only logged.
package notification

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"

	"github.com/google/uuid"
)

const deliveryTimeout = 15 * time.Second

// Recipient is where a message can be delivered. Invitees without an
// account only have an email.
type Recipient struct {
	UserID         uuid.UUID
	Email          string
	Name           string
	FCMToken       *string
	TelegramChatID *int64
}

// Channel is one delivery transport. Deliver returns nil without sending
// when the recipient has no address on this channel.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, to Recipient, msg Message) error
}

// UserLookup is the part of the user repository the dispatcher needs.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Dispatcher implements events.Notifier.
type Dispatcher struct {
	users    UserLookup
	appURL   string
	channels []Channel
	wg       sync.WaitGroup
}

func NewDispatcher(users UserLookup, appURL string, channels ...Channel) *Dispatcher {
	var active []Channel
	for _, ch := range channels {
		if ch != nil {
			active = append(active, ch)
		}
	}
	return &Dispatcher{users: users, appURL: appURL, channels: active}
}

// Notify renders ev and hands it to every channel in the background.
func (d *Dispatcher) Notify(ctx context.Context, ev events.Event) error {
	if len(d.channels) == 0 {
		return nil
	}
	to, err := d.resolve(ctx, ev.Recipient)
	if err != nil {
		return err
	}
	msg, err := Render(ev, d.appURL)
	if err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	for _, ch := range d.channels {
		d.wg.Add(1)
		go func(ch Channel) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(bg, deliveryTimeout)
			defer cancel()
			if err := ch.Deliver(ctx, to, msg); err != nil {
				log.Printf("❌ %s delivery of %s %s to %s failed: %v", ch.Name(), ev.Subject, ev.Type, to.Email, err)
			}
		}(ch)
	}
	return nil
}

// Wait blocks until every started delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) resolve(ctx context.Context, p models.Party) (Recipient, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case p.ID != uuid.Nil:
		user, err = d.users.FindByID(ctx, p.ID)
	case p.Email != "":
		user, err = d.users.FindByEmail(ctx, p.Email)
	default:
		return Recipient{}, errors.New("event has no recipient")
	}

	if errors.Is(err, apperrors.ErrUserNotFound) {
		return Recipient{Email: p.Email, Name: p.Email}, nil
	}
	if err != nil {
		return Recipient{}, err
	}
	return Recipient{
		UserID:         user.ID,
		Email:          user.Email,
		Name:           user.DisplayName(),
		FCMToken:       user.FCMToken,
		TelegramChatID: user.TelegramChatID,
	}, nil
}
