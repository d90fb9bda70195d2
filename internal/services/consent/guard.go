package consent

import "brokebesties/internal/models"

// Roles are the two fixed parties of a proposal.
type Roles struct {
	Initiator    models.Party
	Counterparty models.Party
}

func (r Roles) IsInitiator(a models.Actor) bool    { return r.Initiator.Matches(a) }
func (r Roles) IsCounterparty(a models.Actor) bool { return r.Counterparty.Matches(a) }

func (r Roles) IsParty(a models.Actor) bool {
	return r.IsInitiator(a) || r.IsCounterparty(a)
}

// Other returns the party that is not the actor.
func (r Roles) Other(a models.Actor) models.Party {
	if r.IsInitiator(a) {
		return r.Counterparty
	}
	return r.Initiator
}

// NeedsToAct reports whether the proposal is pending and waiting on a
// decision from the actor.
func NeedsToAct(r Roles, c *models.Consent, arity Arity, a models.Actor) bool {
	if c.Status != models.StatusPending {
		return false
	}
	switch {
	case r.IsCounterparty(a):
		return !c.CounterpartyApproved
	case r.IsInitiator(a):
		return arity == DualApproval && !c.InitiatorApproved
	}
	return false
}
