package consent

import (
	"context"

	"brokebesties/internal/models"

	"github.com/google/uuid"
)

// Arity is how many parties must approve before a change applies.
type Arity int

const (
	// SingleApproval resolves on the counterparty's decision alone.
	SingleApproval Arity = iota + 1
	// DualApproval needs both parties; opening a proposal counts as the
	// initiator's approval.
	DualApproval
)

type Decision int

const (
	Approve Decision = iota + 1
	Reject
)

// DecisionOf maps the wire boolean to a Decision.
func DecisionOf(approve bool) Decision {
	if approve {
		return Approve
	}
	return Reject
}

func (d Decision) String() string {
	if d == Approve {
		return "approve"
	}
	return "reject"
}

// Proposal is a record carrying consent state.
type Proposal interface {
	ConsentState() *models.Consent
	ProposalID() uuid.UUID
}

// Store is the transactional persistence a Machine drives. S is the store
// type handed to callbacks, bound to the open transaction.
type Store[P Proposal, S any] interface {
	// Atomic runs fn inside a single database transaction.
	Atomic(ctx context.Context, fn func(tx S) error) error
	// LockProposal loads the proposal and holds a row lock until commit.
	LockProposal(ctx context.Context, id uuid.UUID) (P, error)
	// FindPendingFor returns the pending proposal that conflicts with draft.
	FindPendingFor(ctx context.Context, draft P) (P, bool, error)
	CreateProposal(ctx context.Context, p P) error
	// UpdateProposal writes the consent state if the stored version still
	// equals prevVersion.
	UpdateProposal(ctx context.Context, p P, prevVersion int) error
	// ApplyChangeAndResolve applies the proposed change to its subject and
	// writes the resolved consent state in the same transaction.
	ApplyChangeAndResolve(ctx context.Context, p P, prevVersion int) error
}

// Binding adapts the machine to one proposal type.
type Binding[P Proposal, S any] interface {
	// Subject names the record type in events and logs.
	Subject() string
	Arity() Arity
	Roles(p P) Roles
	// Prepare validates a draft for actor against the locked subject and
	// fills in both parties.
	Prepare(ctx context.Context, tx S, actor models.Actor, draft P) error
	// Reciprocal reports whether draft mirrors existing, in which case
	// proposing accepts existing instead of opening a second request.
	Reciprocal(existing, draft P) bool
	Summary(p P) string
}

// Outcome is the result of a machine operation.
type Outcome[P Proposal] struct {
	Proposal P
	// Applied is set when this call applied the change to the subject.
	Applied bool
	// Merged is set when a propose accepted a reciprocal request.
	Merged bool
	// Replayed is set when the call repeated an already recorded decision
	// and nothing was written.
	Replayed bool
}
