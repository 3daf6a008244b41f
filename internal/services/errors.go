package services

import "errors"

// Association errors. Callers branch on these with errors.Is; handlers map
// them to HTTP statuses. Everything raised before the unit of work leaves
// no side effects, ErrTransactionAborted means the whole unit rolled back.
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrContractNotFound = errors.New("contract not found")
	ErrTrackingNotFound = errors.New("tracking record not found")

	ErrPlanNotActive     = errors.New("plan is not active")
	ErrLevelMismatch     = errors.New("client level does not meet the plan level requirement")
	ErrAlreadyAssociated = errors.New("an active contract already exists for this client and plan")
	ErrNotAssociated     = errors.New("client is not associated with this plan")

	// ErrForceRequired is distinct from the precondition errors so callers
	// can present a confirmation step and retry with force set.
	ErrForceRequired = errors.New("an active contract exists; pass force to cancel it")

	ErrTransactionAborted = errors.New("transaction aborted, no changes applied")

	ErrIllegalTransition = errors.New("illegal contract state transition")
)
