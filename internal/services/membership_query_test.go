package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/gymbridge-backend/internal/types"
)

func TestPlansForClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.seedClient(t, types.LevelIntermediate)
	planA := env.seedPlan(t, types.LevelBeginner, types.PlanStateActive)
	planB := env.seedPlan(t, types.LevelIntermediate, types.PlanStateActive)

	contractA, err := env.associations.Associate(ctx, client.ID, planA.ID, ContractTerms{Price: 40, DurationMonths: 3})
	if err != nil {
		t.Fatalf("Associate A: %v", err)
	}
	if _, err := env.associations.Associate(ctx, client.ID, planB.ID, ContractTerms{Price: 60, DurationMonths: 6}); err != nil {
		t.Fatalf("Associate B: %v", err)
	}

	// Expire B's contract so one held plan has an active contract and the
	// other does not.
	contractB, err := env.contractRepo.GetActiveByPair(ctx, nil, client.ID, planB.ID)
	if err != nil {
		t.Fatalf("load contract B: %v", err)
	}
	if err := TransitionContract(contractB, types.ContractStateExpired); err != nil {
		t.Fatalf("expire contract B: %v", err)
	}
	if err := env.contractRepo.Update(ctx, nil, contractB); err != nil {
		t.Fatalf("persist expiry: %v", err)
	}

	views, err := env.queries.PlansForClient(ctx, client.ID)
	if err != nil {
		t.Fatalf("PlansForClient: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views=%d, want 2", len(views))
	}

	byPlan := map[uuid.UUID]ClientPlanView{}
	for _, v := range views {
		byPlan[v.Plan.ID] = v
	}
	if v := byPlan[planA.ID]; v.Contract == nil || v.Contract.ID != contractA {
		t.Fatalf("plan A should carry its active contract, got %+v", v.Contract)
	}
	if v := byPlan[planB.ID]; v.Contract != nil {
		t.Fatalf("plan B has no active contract, got %+v", v.Contract)
	}
}

func TestPlansForClientUnknownClient(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.queries.PlansForClient(context.Background(), uuid.New())
	if !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("err=%v, want ErrClientNotFound", err)
	}
}

func TestAvailablePlansForClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.seedClient(t, types.LevelIntermediate)
	held := env.seedPlan(t, types.LevelBeginner, types.PlanStateActive)
	open := env.seedPlan(t, types.LevelIntermediate, types.PlanStateActive)
	tooHard := env.seedPlan(t, types.LevelAdvanced, types.PlanStateActive)
	finished := env.seedPlan(t, types.LevelBeginner, types.PlanStateFinished)

	if _, err := env.associations.Associate(ctx, client.ID, held.ID, ContractTerms{DurationMonths: 1}); err != nil {
		t.Fatalf("Associate: %v", err)
	}

	available, err := env.queries.AvailablePlansForClient(ctx, client.ID)
	if err != nil {
		t.Fatalf("AvailablePlansForClient: %v", err)
	}

	if len(available) != 1 || available[0].ID != open.ID {
		got := make([]uuid.UUID, 0, len(available))
		for _, p := range available {
			got = append(got, p.ID)
		}
		t.Fatalf("available=%v, want only %v (held=%v tooHard=%v finished=%v)", got, open.ID, held.ID, tooHard.ID, finished.ID)
	}
}

func TestCheckReferencesDetectsDrift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.seedClient(t, types.LevelBeginner)
	plan := env.seedPlan(t, types.LevelBeginner, types.PlanStateActive)

	if _, err := env.associations.Associate(ctx, client.ID, plan.ID, ContractTerms{DurationMonths: 1}); err != nil {
		t.Fatalf("Associate: %v", err)
	}

	drift, err := env.queries.CheckReferences(ctx)
	if err != nil {
		t.Fatalf("CheckReferences: %v", err)
	}
	if len(drift) != 0 {
		t.Fatalf("fresh association should be consistent, drift=%v", drift)
	}

	// Simulate an out-of-band write clobbering the plan-side set.
	if err := env.planRepo.SetClientIDs(ctx, nil, plan.ID, nil); err != nil {
		t.Fatalf("clobber plan set: %v", err)
	}

	drift, err = env.queries.CheckReferences(ctx)
	if err != nil {
		t.Fatalf("CheckReferences: %v", err)
	}
	if len(drift) != 1 {
		t.Fatalf("drift entries=%d, want 1", len(drift))
	}
	if drift[0].ClientID != client.ID || drift[0].PlanID != plan.ID || drift[0].Missing != "plan_side" {
		t.Fatalf("unexpected drift entry: %+v", drift[0])
	}
}
