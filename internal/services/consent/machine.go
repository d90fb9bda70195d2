package consent

import (
	"context"
	"fmt"
	"time"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"

	"github.com/google/uuid"
)

// Machine runs the consent protocol for one binding.
type Machine[P Proposal, S Store[P, S]] struct {
	store    S
	binding  Binding[P, S]
	notifier events.Notifier
	now      func() time.Time
}

type settings struct {
	notifier events.Notifier
	now      func() time.Time
}

type Option func(*settings)

// WithNotifier sets where committed transitions are reported.
func WithNotifier(n events.Notifier) Option {
	return func(s *settings) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock overrides the time source used for resolvedAt.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func New[P Proposal, S Store[P, S]](store S, binding Binding[P, S], opts ...Option) *Machine[P, S] {
	cfg := settings{notifier: events.Discard, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Machine[P, S]{
		store:    store,
		binding:  binding,
		notifier: cfg.notifier,
		now:      cfg.now,
	}
}

func (m *Machine[P, S]) Arity() Arity { return m.binding.Arity() }

// Roles exposes the binding's parties for read-side authorization.
func (m *Machine[P, S]) Roles(p P) Roles { return m.binding.Roles(p) }

// NeedsToAct reports whether p is waiting on the actor.
func (m *Machine[P, S]) NeedsToAct(actor models.Actor, p P) bool {
	return NeedsToAct(m.binding.Roles(p), p.ConsentState(), m.binding.Arity(), actor)
}

// Propose opens draft on behalf of actor. If the binding recognises a
// reciprocal pending proposal, that proposal is accepted instead and the
// outcome is marked Merged.
func (m *Machine[P, S]) Propose(ctx context.Context, actor models.Actor, draft P) (Outcome[P], error) {
	var out Outcome[P]
	err := m.store.Atomic(ctx, func(tx S) error {
		if err := m.binding.Prepare(ctx, tx, actor, draft); err != nil {
			return err
		}
		if !m.binding.Roles(draft).IsInitiator(actor) {
			return apperrors.ErrNotParty
		}

		existing, found, err := tx.FindPendingFor(ctx, draft)
		if err != nil {
			return err
		}
		if found {
			if !m.binding.Reciprocal(existing, draft) || !m.binding.Roles(existing).IsCounterparty(actor) {
				return apperrors.ErrDuplicatePending
			}
			c := existing.ConsentState()
			prev := c.Version
			c.CounterpartyApproved = true
			m.resolve(c, models.StatusApproved)
			if err := tx.ApplyChangeAndResolve(ctx, existing, prev); err != nil {
				return err
			}
			out = Outcome[P]{Proposal: existing, Applied: true, Merged: true}
			return nil
		}

		c := draft.ConsentState()
		c.Status = models.StatusPending
		c.InitiatorApproved = m.binding.Arity() == DualApproval
		c.CounterpartyApproved = false
		c.ResolvedAt = nil
		c.Version = 1
		if err := tx.CreateProposal(ctx, draft); err != nil {
			return err
		}
		out = Outcome[P]{Proposal: draft}
		return nil
	})
	if err != nil {
		return Outcome[P]{}, err
	}

	roles := m.binding.Roles(out.Proposal)
	if out.Merged {
		m.emit(ctx, events.Approved, actor, out.Proposal, roles.Initiator)
	} else {
		m.emit(ctx, events.Proposed, actor, out.Proposal, roles.Counterparty)
	}
	return out, nil
}

// Respond records actor's decision on a pending proposal.
func (m *Machine[P, S]) Respond(ctx context.Context, actor models.Actor, id uuid.UUID, decision Decision) (Outcome[P], error) {
	var out Outcome[P]
	err := m.store.Atomic(ctx, func(tx S) error {
		p, err := tx.LockProposal(ctx, id)
		if err != nil {
			return err
		}
		roles := m.binding.Roles(p)
		if !roles.IsParty(actor) {
			return apperrors.ErrNotParty
		}

		// Eligibility does not depend on status, so a resolved proposal
		// answers the initiator the same way a pending one does.
		isInitiator := roles.IsInitiator(actor)
		if err := m.eligible(roles, actor, decision); err != nil {
			return err
		}

		c := p.ConsentState()
		if c.Status.Terminal() {
			if replays(c.Status, decision) {
				out = Outcome[P]{Proposal: p, Replayed: true}
				return nil
			}
			return notPending(c.Status)
		}

		prev := c.Version
		if m.binding.Arity() == DualApproval {
			recorded := c.CounterpartyApproved
			if isInitiator {
				recorded = c.InitiatorApproved
			}
			if recorded {
				out = Outcome[P]{Proposal: p, Replayed: true}
				return nil
			}
		}

		if decision == Reject {
			m.resolve(c, models.StatusRejected)
			if err := tx.UpdateProposal(ctx, p, prev); err != nil {
				return err
			}
			out = Outcome[P]{Proposal: p}
			return nil
		}

		if isInitiator {
			c.InitiatorApproved = true
		} else {
			c.CounterpartyApproved = true
		}
		if m.binding.Arity() == DualApproval && !(c.InitiatorApproved && c.CounterpartyApproved) {
			c.Version = prev + 1
			if err := tx.UpdateProposal(ctx, p, prev); err != nil {
				return err
			}
			out = Outcome[P]{Proposal: p}
			return nil
		}

		m.resolve(c, models.StatusApproved)
		if err := tx.ApplyChangeAndResolve(ctx, p, prev); err != nil {
			return err
		}
		out = Outcome[P]{Proposal: p, Applied: true}
		return nil
	})
	if err != nil {
		return Outcome[P]{}, err
	}
	if out.Replayed {
		return out, nil
	}

	to := m.binding.Roles(out.Proposal).Other(actor)
	switch out.Proposal.ConsentState().Status {
	case models.StatusApproved:
		m.emit(ctx, events.Approved, actor, out.Proposal, to)
	case models.StatusRejected:
		m.emit(ctx, events.Rejected, actor, out.Proposal, to)
	default:
		m.emit(ctx, events.Proposed, actor, out.Proposal, to)
	}
	return out, nil
}

// Cancel withdraws a pending proposal. Only the initiator may cancel.
func (m *Machine[P, S]) Cancel(ctx context.Context, actor models.Actor, id uuid.UUID) (Outcome[P], error) {
	var out Outcome[P]
	err := m.store.Atomic(ctx, func(tx S) error {
		p, err := tx.LockProposal(ctx, id)
		if err != nil {
			return err
		}
		roles := m.binding.Roles(p)
		if !roles.IsParty(actor) {
			return apperrors.ErrNotParty
		}
		if !roles.IsInitiator(actor) {
			return apperrors.ErrNotInitiator
		}

		c := p.ConsentState()
		switch {
		case c.Status == models.StatusCancelled:
			out = Outcome[P]{Proposal: p, Replayed: true}
			return nil
		case c.Status.Terminal():
			return notPending(c.Status)
		}

		prev := c.Version
		m.resolve(c, models.StatusCancelled)
		if err := tx.UpdateProposal(ctx, p, prev); err != nil {
			return err
		}
		out = Outcome[P]{Proposal: p}
		return nil
	})
	if err != nil {
		return Outcome[P]{}, err
	}
	if !out.Replayed {
		m.emit(ctx, events.Cancelled, actor, out.Proposal, m.binding.Roles(out.Proposal).Counterparty)
	}
	return out, nil
}

func (m *Machine[P, S]) resolve(c *models.Consent, status models.ConsentStatus) {
	now := m.now()
	c.Status = status
	c.ResolvedAt = &now
	c.Version++
}

func (m *Machine[P, S]) emit(ctx context.Context, typ events.Type, actor models.Actor, p P, to models.Party) {
	roles := m.binding.Roles(p)
	ev := events.Event{
		Type:         typ,
		Subject:      m.binding.Subject(),
		SubjectID:    p.ProposalID(),
		Actor:        actor,
		Recipient:    to,
		Participants: []models.Party{roles.Initiator, roles.Counterparty},
		Summary:      m.binding.Summary(p),
		At:           m.now(),
	}
	events.Send(ctx, m.notifier, ev)
}

// eligible reports whether actor may give decision at all. Under single
// approval only the counterparty decides; under dual approval the initiator
// approved by proposing and can withdraw only through Cancel.
func (m *Machine[P, S]) eligible(roles Roles, actor models.Actor, decision Decision) error {
	switch m.binding.Arity() {
	case SingleApproval:
		if !roles.IsCounterparty(actor) {
			return apperrors.ErrInitiatorCannotRespond
		}
	case DualApproval:
		if roles.IsInitiator(actor) && decision == Reject {
			return apperrors.ErrInitiatorCannotRespond
		}
	}
	return nil
}

func replays(status models.ConsentStatus, d Decision) bool {
	return (status == models.StatusApproved && d == Approve) ||
		(status == models.StatusRejected && d == Reject)
}

func notPending(status models.ConsentStatus) error {
	return apperrors.ErrNotPending.WithMessage(fmt.Sprintf("request is already %s", status))
}
