package consent

import (
	"context"
	"sync"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/models"

	"github.com/google/uuid"
)

// memProposal changes the value of a named subject when applied.
type memProposal struct {
	ID      uuid.UUID
	Subject string
	Value   int
	models.Consent
}

func (p *memProposal) ProposalID() uuid.UUID { return p.ID }

// memStore serializes transactions with one mutex and rolls back on error.
type memStore struct {
	mu       *sync.Mutex
	rows     map[uuid.UUID]memProposal
	subjects map[string]int
	applied  map[string]int

	// beforeUpdate runs before a versioned write; tests use it to simulate a
	// writer that slipped past the lock.
	beforeUpdate func(s *memStore, id uuid.UUID)
}

func newMemStore() *memStore {
	return &memStore{
		mu:       &sync.Mutex{},
		rows:     map[uuid.UUID]memProposal{},
		subjects: map[string]int{},
		applied:  map[string]int{},
	}
}

func (s *memStore) Atomic(ctx context.Context, fn func(tx *memStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make(map[uuid.UUID]memProposal, len(s.rows))
	for k, v := range s.rows {
		rows[k] = v
	}
	subjects := make(map[string]int, len(s.subjects))
	for k, v := range s.subjects {
		subjects[k] = v
	}
	applied := make(map[string]int, len(s.applied))
	for k, v := range s.applied {
		applied[k] = v
	}

	if err := fn(s); err != nil {
		s.rows, s.subjects, s.applied = rows, subjects, applied
		return err
	}
	return nil
}

func (s *memStore) LockProposal(ctx context.Context, id uuid.UUID) (*memProposal, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, apperrors.ErrProposalNotFound
	}
	return &row, nil
}

func (s *memStore) FindPendingFor(ctx context.Context, draft *memProposal) (*memProposal, bool, error) {
	for _, row := range s.rows {
		if row.Subject == draft.Subject && row.Status == models.StatusPending {
			found := row
			return &found, true, nil
		}
	}
	return nil, false, nil
}

func (s *memStore) CreateProposal(ctx context.Context, p *memProposal) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.rows[p.ID] = *p
	return nil
}

func (s *memStore) UpdateProposal(ctx context.Context, p *memProposal, prevVersion int) error {
	if s.beforeUpdate != nil {
		s.beforeUpdate(s, p.ID)
	}
	if s.rows[p.ID].Version != prevVersion {
		return apperrors.ErrConcurrentUpdate
	}
	s.rows[p.ID] = *p
	return nil
}

func (s *memStore) ApplyChangeAndResolve(ctx context.Context, p *memProposal, prevVersion int) error {
	if err := s.UpdateProposal(ctx, p, prevVersion); err != nil {
		return err
	}
	s.subjects[p.Subject] = p.Value
	s.applied[p.Subject]++
	return nil
}

func (s *memStore) row(id uuid.UUID) memProposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id]
}

func (s *memStore) appliedCount(subject string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied[subject]
}

// memBinding treats the counterparty as fixed per test and the subject as
// the pair key when reciprocal merging is on.
type memBinding struct {
	arity        Arity
	counterparty uuid.UUID
	reciprocal   bool
	prepareErr   error
}

func (b *memBinding) Subject() string { return "mem" }
func (b *memBinding) Arity() Arity    { return b.arity }

func (b *memBinding) Roles(p *memProposal) Roles {
	return Roles{
		Initiator:    models.Party{ID: p.InitiatorID},
		Counterparty: models.Party{ID: p.CounterpartyID},
	}
}

func (b *memBinding) Prepare(ctx context.Context, tx *memStore, actor models.Actor, draft *memProposal) error {
	if b.prepareErr != nil {
		return b.prepareErr
	}
	draft.InitiatorID = actor.ID
	if draft.CounterpartyID == uuid.Nil {
		draft.CounterpartyID = b.counterparty
	}
	return nil
}

func (b *memBinding) Reciprocal(existing, draft *memProposal) bool {
	return b.reciprocal &&
		existing.InitiatorID == draft.CounterpartyID &&
		existing.CounterpartyID == draft.InitiatorID
}

func (b *memBinding) Summary(p *memProposal) string { return p.Subject }
