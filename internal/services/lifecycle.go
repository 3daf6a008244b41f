package services

import (
	"fmt"
	"time"

	"github.com/yungbote/gymbridge-backend/internal/types"
)

// contractTransitions is the full set of legal state changes. Renewal is
// modelled as extending the same contract row, so "renewed" is a transition
// target, not a stored state: renewing returns the row to active.
var contractTransitions = map[string]map[string]bool{
	types.ContractStateActive: {
		types.ContractStateCancelled: true,
		types.ContractStateExpired:   true,
	},
	types.ContractStateExpired: {},
}

// CanTransition reports whether a stored contract state may move to target.
func CanTransition(from, to string) bool {
	targets, ok := contractTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// CanRenew reports whether a contract in the given state may be renewed.
// Active contracts extend forward; expired contracts are renewable by
// policy, picking up from the original end date.
func CanRenew(state string) bool {
	return state == types.ContractStateActive || state == types.ContractStateExpired
}

// TransitionContract mutates the contract state after checking legality.
// It does not persist; the caller writes the row inside its unit of work.
func TransitionContract(c *types.Contract, to string) error {
	if !CanTransition(c.State, to) {
		return fmt.Errorf("contract %s: %s -> %s: %w", c.ID, c.State, to, ErrIllegalTransition)
	}
	c.State = to
	return nil
}

// RenewContract extends the contract in place: the new end date is the old
// end date plus additionalMonths, and an expired contract becomes active
// again. The caller persists the row.
func RenewContract(c *types.Contract, additionalMonths int, now time.Time) error {
	if !CanRenew(c.State) {
		return fmt.Errorf("contract %s: renew from %s: %w", c.ID, c.State, ErrIllegalTransition)
	}
	if additionalMonths <= 0 {
		return fmt.Errorf("contract %s: renewal must add at least one month: %w", c.ID, ErrIllegalTransition)
	}
	c.EndDate = c.EndDate.AddDate(0, additionalMonths, 0)
	c.DurationMonths += additionalMonths
	c.Renewals++
	c.RenewedAt = &now
	c.State = types.ContractStateActive
	return nil
}
