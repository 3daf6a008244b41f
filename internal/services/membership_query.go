package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/repos"
	"github.com/yungbote/gymbridge-backend/internal/types"
)

// ClientPlanView joins a held plan with its active contract, if any. An
// association can outlive its contract, so Contract may be nil.
type ClientPlanView struct {
	Plan     *types.Plan     `json:"plan"`
	Contract *types.Contract `json:"contract,omitempty"`
}

// ReferenceDrift is one missing half of the bidirectional reference pair,
// found by the reconciliation pass.
type ReferenceDrift struct {
	ClientID uuid.UUID `json:"client_id"`
	PlanID   uuid.UUID `json:"plan_id"`
	Missing  string    `json:"missing"` // "client_side" or "plan_side"
}

// MembershipQueryService is the read side: pure composition over the
// repos, no writes.
type MembershipQueryService interface {
	PlansForClient(ctx context.Context, clientID uuid.UUID) ([]ClientPlanView, error)
	AvailablePlansForClient(ctx context.Context, clientID uuid.UUID) ([]*types.Plan, error)
	CheckReferences(ctx context.Context) ([]ReferenceDrift, error)
}

type membershipQueryService struct {
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	planRepo     repos.PlanRepo
	contractRepo repos.ContractRepo
}

func NewMembershipQueryService(
	baseLog *logger.Logger,
	clientRepo repos.ClientRepo,
	planRepo repos.PlanRepo,
	contractRepo repos.ContractRepo,
) MembershipQueryService {
	return &membershipQueryService{
		log:          baseLog.With("service", "MembershipQueryService"),
		clientRepo:   clientRepo,
		planRepo:     planRepo,
		contractRepo: contractRepo,
	}
}

func (s *membershipQueryService) PlansForClient(ctx context.Context, clientID uuid.UUID) ([]ClientPlanView, error) {
	client, err := s.clientRepo.GetByID(ctx, nil, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client %s: %w", clientID, ErrClientNotFound)
		}
		return nil, fmt.Errorf("load client: %w", err)
	}

	planIDs, err := types.DecodeUUIDSet(client.PlanIDs)
	if err != nil {
		return nil, fmt.Errorf("decode client plan set: %w", err)
	}
	if len(planIDs) == 0 {
		return []ClientPlanView{}, nil
	}

	var (
		plans     []*types.Plan
		contracts []*types.Contract
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plans, err = s.planRepo.GetByIDs(gctx, nil, planIDs)
		return err
	})
	g.Go(func() error {
		var err error
		contracts, err = s.contractRepo.GetActiveByPairs(gctx, nil, clientID, planIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load plans for client: %w", err)
	}

	contractByPlan := make(map[uuid.UUID]*types.Contract, len(contracts))
	for _, c := range contracts {
		contractByPlan[c.PlanID] = c
	}

	views := make([]ClientPlanView, 0, len(plans))
	for _, p := range plans {
		views = append(views, ClientPlanView{Plan: p, Contract: contractByPlan[p.ID]})
	}
	return views, nil
}

func (s *membershipQueryService) AvailablePlansForClient(ctx context.Context, clientID uuid.UUID) ([]*types.Plan, error) {
	client, err := s.clientRepo.GetByID(ctx, nil, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client %s: %w", clientID, ErrClientNotFound)
		}
		return nil, fmt.Errorf("load client: %w", err)
	}

	held, err := types.DecodeUUIDSet(client.PlanIDs)
	if err != nil {
		return nil, fmt.Errorf("decode client plan set: %w", err)
	}

	activePlans, err := s.planRepo.ListByState(ctx, nil, types.PlanStateActive)
	if err != nil {
		return nil, fmt.Errorf("list active plans: %w", err)
	}

	available := make([]*types.Plan, 0, len(activePlans))
	for _, p := range activePlans {
		if types.UUIDSetContains(held, p.ID) {
			continue
		}
		if !types.LevelAllows(client.Level, p.Level) {
			continue
		}
		available = append(available, p)
	}
	return available, nil
}

// CheckReferences walks every client and plan and reports edges present on
// one side only. The coordinator keeps both sides in one transaction, so
// drift here means data was touched outside it.
func (s *membershipQueryService) CheckReferences(ctx context.Context) ([]ReferenceDrift, error) {
	clients, err := s.clientRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	plans, err := s.planRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	clientHolds := make(map[uuid.UUID]map[uuid.UUID]bool, len(clients))
	for _, c := range clients {
		ids, err := types.DecodeUUIDSet(c.PlanIDs)
		if err != nil {
			return nil, fmt.Errorf("decode plan set for client %s: %w", c.ID, err)
		}
		set := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		clientHolds[c.ID] = set
	}

	var drift []ReferenceDrift
	for _, p := range plans {
		ids, err := types.DecodeUUIDSet(p.ClientIDs)
		if err != nil {
			return nil, fmt.Errorf("decode client set for plan %s: %w", p.ID, err)
		}
		backRefs := make(map[uuid.UUID]bool, len(ids))
		for _, clientID := range ids {
			backRefs[clientID] = true
			if !clientHolds[clientID][p.ID] {
				drift = append(drift, ReferenceDrift{ClientID: clientID, PlanID: p.ID, Missing: "client_side"})
			}
		}
		for clientID, holds := range clientHolds {
			if holds[p.ID] && !backRefs[clientID] {
				drift = append(drift, ReferenceDrift{ClientID: clientID, PlanID: p.ID, Missing: "plan_side"})
			}
		}
	}

	if len(drift) > 0 {
		s.log.Warn("Reference drift detected", "count", len(drift))
	}
	return drift, nil
}
