package cache

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"brokebesties/internal/events"
	keys "brokebesties/internal/utils/cache"
)

// Store is the part of CacheService the inbox uses.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Inbox caches how many pending requests wait on each user and drops the
// counts of every participant when a request changes state.
// A nil *Inbox or one without a store always loads from the database.
//
// A count loaded while this process invalidated any inbox is returned but not
// cached. Invalidations from other processes can still race a load; the TTL
// bounds how long such a count stays stale.
type Inbox struct {
	store         Store
	ttl           time.Duration
	invalidations atomic.Uint64
}

func NewInbox(store Store, ttl time.Duration) *Inbox {
	return &Inbox{store: store, ttl: ttl}
}

// Count returns the cached count for the party, loading and caching it on a miss.
// Cache failures fall through to load.
func (i *Inbox) Count(ctx context.Context, subject, partyKey string, load func(ctx context.Context) (int64, error)) (int64, error) {
	if i == nil || i.store == nil {
		return load(ctx)
	}

	key := keys.InboxKey(subject, partyKey)
	var n int64
	found, err := i.store.Get(ctx, key, &n)
	if err != nil {
		log.Printf("⚠️ Inbox cache read failed for %s: %v", key, err)
	} else if found {
		return n, nil
	}

	gen := i.invalidations.Load()
	n, err = load(ctx)
	if err != nil {
		return 0, err
	}
	if i.invalidations.Load() != gen {
		return n, nil
	}
	if err := i.store.SetWithTTL(ctx, key, n, i.ttl); err != nil {
		log.Printf("⚠️ Inbox cache write failed for %s: %v", key, err)
	}
	return n, nil
}

// Notify implements events.Notifier.
func (i *Inbox) Notify(ctx context.Context, ev events.Event) error {
	if i == nil || i.store == nil {
		return nil
	}
	var stale []string
	for _, p := range ev.Participants {
		for _, k := range p.Keys() {
			stale = append(stale, keys.InboxKey(ev.Subject, k))
		}
	}
	if len(stale) == 0 {
		return nil
	}
	i.invalidations.Add(1)
	return i.store.Delete(ctx, stale...)
}
