package errors

var (
	ErrUserNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrGroupNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "GROUP_NOT_FOUND",
		Message: "group not found",
	}
	ErrNotGroupMember = &DomainError{
		Kind:    KindForbidden,
		Code:    "NOT_GROUP_MEMBER",
		Message: "you are not a member of this group",
	}
	ErrAlreadyMember = &DomainError{
		Kind:    KindInvalidState,
		Code:    "ALREADY_MEMBER",
		Message: "user is already a member of this group",
	}

	ErrDebtNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "DEBT_NOT_FOUND",
		Message: "debt not found",
	}
	ErrNotLender = &DomainError{
		Kind:    KindForbidden,
		Code:    "NOT_LENDER",
		Message: "only the lender can do this",
	}
	ErrDebtLocked = &DomainError{
		Kind:    KindInvalidState,
		Code:    "DEBT_HAS_PENDING_REQUEST",
		Message: "debt has a pending request; resolve it first",
	}
	ErrDebtAlreadyPaid = &DomainError{
		Kind:    KindInvalidState,
		Code:    "DEBT_ALREADY_PAID",
		Message: "debt is already paid",
	}
	ErrInvalidAmount = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than 0",
	}

	ErrSelfFriendRequest = &DomainError{
		Kind:    KindValidation,
		Code:    "SELF_FRIEND_REQUEST",
		Message: "you cannot send a friend request to yourself",
	}
	ErrAlreadyFriends = &DomainError{
		Kind:    KindInvalidState,
		Code:    "ALREADY_FRIENDS",
		Message: "you are already friends",
	}
	ErrFriendshipNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "FRIENDSHIP_NOT_FOUND",
		Message: "friendship not found",
	}

	ErrAlertNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "ALERT_NOT_FOUND",
		Message: "alert not found",
	}
	ErrAlertExists = &DomainError{
		Kind:    KindInvalidState,
		Code:    "ALERT_EXISTS",
		Message: "an alert already exists for this debt or recurring payment",
	}

	ErrRecurringPaymentNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "RECURRING_PAYMENT_NOT_FOUND",
		Message: "recurring payment not found",
	}
	ErrRecurringHasNoBorrowers = &DomainError{
		Kind:    KindInvalidState,
		Code:    "RECURRING_PAYMENT_NO_BORROWERS",
		Message: "recurring payment has no borrowers",
	}

	ErrTabNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "TAB_NOT_FOUND",
		Message: "tab not found",
	}
)
