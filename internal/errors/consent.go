package errors

var (
	ErrProposalNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "PROPOSAL_NOT_FOUND",
		Message: "request not found",
	}
	ErrNotParty = &DomainError{
		Kind:    KindForbidden,
		Code:    "NOT_PARTY",
		Message: "you are not a party to this request",
	}
	ErrNotInitiator = &DomainError{
		Kind:    KindForbidden,
		Code:    "NOT_INITIATOR",
		Message: "only the requester can cancel this request",
	}
	ErrInitiatorCannotRespond = &DomainError{
		Kind:    KindForbidden,
		Code:    "INITIATOR_CANNOT_RESPOND",
		Message: "you created this request; cancel it instead",
	}
	ErrNotPending = &DomainError{
		Kind:    KindInvalidState,
		Code:    "NOT_PENDING",
		Message: "request is no longer pending",
	}
	ErrDuplicatePending = &DomainError{
		Kind:    KindInvalidState,
		Code:    "DUPLICATE_PENDING",
		Message: "a pending request already exists",
	}
	ErrConcurrentUpdate = &DomainError{
		Kind:    KindConflict,
		Code:    "CONCURRENT_UPDATE",
		Message: "request was modified concurrently, retry",
	}
	ErrInvalidKind = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_KIND",
		Message: "invalid request type",
	}
)
