/*
Package consent implements the two-party consent protocol shared by debt
transactions, friend requests and group invites.

A proposal is opened by its initiator and resolved by exactly one of:

	pending -> approved   the required parties approved; the change is applied
	pending -> rejected   a party declined; the subject is untouched
	pending -> cancelled  the initiator withdrew; the subject is untouched

Every operation runs inside one store transaction that locks the proposal
row, re-evaluates the guard predicates against the locked copy and writes
with a version check, so a change is applied at most once no matter how
calls interleave.

Bindings supply what differs per record type: the approval arity, who the
parties are, creation preconditions, the reciprocal-merge rule and a
human-readable summary. The store supplies persistence and the applied
change itself.

Repeating a decision that is already recorded returns the current record
with Outcome.Replayed set instead of an error, so clients can treat double
submission as harmless.

Notifications are sent after commit. A failing notifier is logged and never
turns a committed transition into an error.
*/
package consent
