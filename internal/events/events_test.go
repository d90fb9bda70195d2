package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanoutDeliversToAllAndJoinsErrors(t *testing.T) {
	var calls []string
	boom := errors.New("boom")

	f := Fanout{
		NotifierFunc(func(_ context.Context, ev Event) error {
			calls = append(calls, "first:"+string(ev.Type))
			return boom
		}),
		nil,
		NotifierFunc(func(_ context.Context, ev Event) error {
			calls = append(calls, "second:"+string(ev.Type))
			return nil
		}),
	}

	err := f.Notify(context.Background(), Event{Type: Approved})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:approved", "second:approved"}, calls)
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.Notify(context.Background(), Event{Type: Proposed}))
}

func TestSendSwallowsErrorsAndPanics(t *testing.T) {
	ev := Event{Type: Removed, Subject: SubjectFriend}

	assert.NotPanics(t, func() {
		Send(context.Background(), NotifierFunc(func(context.Context, Event) error {
			panic("channel exploded")
		}), ev)
	})
	assert.NotPanics(t, func() {
		Send(context.Background(), NotifierFunc(func(context.Context, Event) error {
			return errors.New("smtp down")
		}), ev)
	})
	assert.NotPanics(t, func() { Send(context.Background(), nil, ev) })

	var got Event
	Send(context.Background(), NotifierFunc(func(_ context.Context, e Event) error {
		got = e
		return nil
	}), ev)
	assert.Equal(t, ev, got)
}
