package errors

var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be a positive value",
	}
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "requested amount exceeds withdrawable balance",
	}
	ErrInvalidBankDetails = &DomainError{
		Code:    "INVALID_BANK_DETAILS",
		Message: "bank details are invalid",
	}
	// ErrBalanceInconsistency indicates the ledger produced a negative
	// balance. It is a data integrity fault, never shown verbatim to
	// end users and never clamped to zero.
	ErrBalanceInconsistency = &DomainError{
		Code:    "BALANCE_INCONSISTENCY",
		Message: "balance computation produced a negative value",
	}
	// ErrDuplicateContribution marks a replayed gateway reference. The
	// ledger treats it as an idempotent no-op; it exists as an error so
	// repositories can report the unique-constraint hit upward.
	ErrDuplicateContribution = &DomainError{
		Code:    "DUPLICATE_CONTRIBUTION",
		Message: "gateway reference already recorded",
	}
	ErrCollectionNotFound = &DomainError{
		Code:    "COLLECTION_NOT_FOUND",
		Message: "collection not found",
	}
	ErrCollectionClosed = &DomainError{
		Code:    "COLLECTION_CLOSED",
		Message: "collection is not accepting contributions",
	}
	ErrWithdrawalNotFound = &DomainError{
		Code:    "WITHDRAWAL_NOT_FOUND",
		Message: "withdrawal not found",
	}
	ErrInvalidTransition = &DomainError{
		Code:    "INVALID_TRANSITION",
		Message: "withdrawal status transition not allowed",
	}
	ErrAmountMismatch = &DomainError{
		Code:    "AMOUNT_MISMATCH",
		Message: "charged amount does not match the collection's configured amount",
	}
)
