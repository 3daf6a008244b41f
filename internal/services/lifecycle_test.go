package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/gymbridge-backend/internal/types"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"active_to_cancelled", types.ContractStateActive, types.ContractStateCancelled, true},
		{"active_to_expired", types.ContractStateActive, types.ContractStateExpired, true},
		{"expired_to_cancelled", types.ContractStateExpired, types.ContractStateCancelled, false},
		{"cancelled_to_active", types.ContractStateCancelled, types.ContractStateActive, false},
		{"cancelled_to_expired", types.ContractStateCancelled, types.ContractStateExpired, false},
		{"expired_to_active", types.ContractStateExpired, types.ContractStateActive, false},
		{"unknown_state", "pending", types.ContractStateActive, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("CanTransition(%q, %q)=%v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestTransitionContractRejectsIllegalMove(t *testing.T) {
	c := &types.Contract{ID: uuid.New(), State: types.ContractStateCancelled}
	err := TransitionContract(c, types.ContractStateExpired)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
	if c.State != types.ContractStateCancelled {
		t.Fatalf("state changed on rejected transition: %s", c.State)
	}
}

func TestRenewContract(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)
	now := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	t.Run("active_extends_from_end_date", func(t *testing.T) {
		c := &types.Contract{ID: uuid.New(), State: types.ContractStateActive, StartDate: start, EndDate: end, DurationMonths: 3}
		if err := RenewContract(c, 2, now); err != nil {
			t.Fatalf("RenewContract: %v", err)
		}
		if want := end.AddDate(0, 2, 0); !c.EndDate.Equal(want) {
			t.Fatalf("end date %v, want %v", c.EndDate, want)
		}
		if c.DurationMonths != 5 || c.Renewals != 1 || c.RenewedAt == nil {
			t.Fatalf("renewal bookkeeping wrong: %+v", c)
		}
		if c.State != types.ContractStateActive {
			t.Fatalf("state %s, want active", c.State)
		}
	})

	t.Run("expired_reactivates", func(t *testing.T) {
		c := &types.Contract{ID: uuid.New(), State: types.ContractStateExpired, StartDate: start, EndDate: end, DurationMonths: 3}
		if err := RenewContract(c, 1, now); err != nil {
			t.Fatalf("RenewContract: %v", err)
		}
		if c.State != types.ContractStateActive {
			t.Fatalf("state %s, want active", c.State)
		}
		if want := end.AddDate(0, 1, 0); !c.EndDate.Equal(want) {
			t.Fatalf("end date %v, want %v (must extend from the original end)", c.EndDate, want)
		}
	})

	t.Run("cancelled_is_not_renewable", func(t *testing.T) {
		c := &types.Contract{ID: uuid.New(), State: types.ContractStateCancelled, StartDate: start, EndDate: end}
		if err := RenewContract(c, 1, now); !errors.Is(err, ErrIllegalTransition) {
			t.Fatalf("expected ErrIllegalTransition, got %v", err)
		}
	})

	t.Run("zero_months_rejected", func(t *testing.T) {
		c := &types.Contract{ID: uuid.New(), State: types.ContractStateActive, StartDate: start, EndDate: end}
		if err := RenewContract(c, 0, now); !errors.Is(err, ErrIllegalTransition) {
			t.Fatalf("expected ErrIllegalTransition, got %v", err)
		}
	})
}
