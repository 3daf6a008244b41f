package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/yungbote/gymbridge-backend/internal/db"
	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/repos"
	"github.com/yungbote/gymbridge-backend/internal/types"
)

var testDBSeq int64

// newTestDB opens a fresh in-memory sqlite database with the gym schema
// and the same partial unique index production installs on contracts.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:assoctest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(
		&types.Client{},
		&types.Plan{},
		&types.Contract{},
		&types.TrackingRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.ApplyConstraints(gdb); err != nil {
		t.Fatalf("apply constraints: %v", err)
	}
	return gdb
}

type testEnv struct {
	db           *gorm.DB
	clientRepo   repos.ClientRepo
	planRepo     repos.PlanRepo
	contractRepo repos.ContractRepo
	trackingRepo repos.TrackingRecordRepo
	associations AssociationService
	queries      MembershipQueryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := newTestDB(t)
	log := logger.NewNop()

	clientRepo := repos.NewClientRepo(gdb, log)
	planRepo := repos.NewPlanRepo(gdb, log)
	contractRepo := repos.NewContractRepo(gdb, log)
	trackingRepo := repos.NewTrackingRecordRepo(gdb, log)

	runner := NewCompensationRunner(log, trackingRepo)
	associations := NewAssociationService(gdb, log, clientRepo, planRepo, contractRepo, runner, NopMembershipEvents{})
	queries := NewMembershipQueryService(log, clientRepo, planRepo, contractRepo)

	return &testEnv{
		db:           gdb,
		clientRepo:   clientRepo,
		planRepo:     planRepo,
		contractRepo: contractRepo,
		trackingRepo: trackingRepo,
		associations: associations,
		queries:      queries,
	}
}

func (e *testEnv) seedClient(t *testing.T, level string) *types.Client {
	t.Helper()
	row, err := e.clientRepo.Create(context.Background(), nil, &types.Client{
		Name:  "Test Client " + uuid.NewString()[:8],
		Email: uuid.NewString() + "@example.com",
		Level: level,
	})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return row
}

func (e *testEnv) seedPlan(t *testing.T, level, state string) *types.Plan {
	t.Helper()
	row, err := e.planRepo.Create(context.Background(), nil, &types.Plan{
		Name:         "Test Plan " + uuid.NewString()[:8],
		Level:        level,
		State:        state,
		MonthlyPrice: 30,
	})
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return row
}

// assertSymmetry checks the bidirectional reference invariant: the edge is
// either present on both sides or absent on both.
func (e *testEnv) assertSymmetry(t *testing.T, clientID, planID uuid.UUID, wantEdge bool) {
	t.Helper()

	client, err := e.clientRepo.GetByID(context.Background(), nil, clientID)
	if err != nil {
		t.Fatalf("reload client: %v", err)
	}
	plan, err := e.planRepo.GetByID(context.Background(), nil, planID)
	if err != nil {
		t.Fatalf("reload plan: %v", err)
	}

	planIDs, err := types.DecodeUUIDSet(client.PlanIDs)
	if err != nil {
		t.Fatalf("decode client set: %v", err)
	}
	clientIDs, err := types.DecodeUUIDSet(plan.ClientIDs)
	if err != nil {
		t.Fatalf("decode plan set: %v", err)
	}

	forward := types.UUIDSetContains(planIDs, planID)
	backward := types.UUIDSetContains(clientIDs, clientID)
	if forward != backward {
		t.Fatalf("reference sets diverged: client holds plan=%v, plan holds client=%v", forward, backward)
	}
	if forward != wantEdge {
		t.Fatalf("edge presence=%v, want %v", forward, wantEdge)
	}
}

func (e *testEnv) countActiveContracts(t *testing.T, clientID, planID uuid.UUID) int64 {
	t.Helper()
	var n int64
	err := e.db.Model(&types.Contract{}).
		Where("client_id = ? AND plan_id = ? AND state = ?", clientID, planID, types.ContractStateActive).
		Count(&n).Error
	if err != nil {
		t.Fatalf("count active contracts: %v", err)
	}
	return n
}
