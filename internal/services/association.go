package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/repos"
	"github.com/yungbote/gymbridge-backend/internal/types"
)

// ContractTerms carries the caller-supplied part of a new contract.
type ContractTerms struct {
	Price          float64   `json:"price"`
	DurationMonths int       `json:"duration_months"`
	StartDate      time.Time `json:"start_date"`
	Conditions     string    `json:"conditions"`
}

type DisassociateResult struct {
	ContractCancelled bool               `json:"contract_cancelled"`
	Compensation      CompensationResult `json:"compensation"`
}

// AssociationService is the single writer for the denormalized
// client.plan_ids / plan.client_ids sets and for contract state. Every
// mutation of the client/plan edge goes through one of these methods.
type AssociationService interface {
	Associate(ctx context.Context, clientID, planID uuid.UUID, terms ContractTerms) (uuid.UUID, error)
	Disassociate(ctx context.Context, clientID, planID uuid.UUID, force bool) (DisassociateResult, error)
	Renew(ctx context.Context, contractID uuid.UUID, additionalMonths int) error
	ExpireDue(ctx context.Context, now time.Time) (int, error)
	RemoveClient(ctx context.Context, clientID uuid.UUID, force bool) error
}

type associationService struct {
	db           *gorm.DB
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	planRepo     repos.PlanRepo
	contractRepo repos.ContractRepo
	compensation *CompensationRunner
	events       MembershipEvents
}

func NewAssociationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clientRepo repos.ClientRepo,
	planRepo repos.PlanRepo,
	contractRepo repos.ContractRepo,
	compensation *CompensationRunner,
	events MembershipEvents,
) AssociationService {
	return &associationService{
		db:           db,
		log:          baseLog.With("service", "AssociationService"),
		clientRepo:   clientRepo,
		planRepo:     planRepo,
		contractRepo: contractRepo,
		compensation: compensation,
		events:       events,
	}
}

// Associate links a client to a plan under a new active contract. All
// preconditions are checked before the unit of work opens; the contract
// insert and both reference-set updates commit together or not at all.
func (s *associationService) Associate(ctx context.Context, clientID, planID uuid.UUID, terms ContractTerms) (uuid.UUID, error) {
	client, plan, err := s.loadPair(ctx, clientID, planID)
	if err != nil {
		return uuid.Nil, err
	}

	if plan.State != types.PlanStateActive {
		return uuid.Nil, fmt.Errorf("plan %s is %s: %w", planID, plan.State, ErrPlanNotActive)
	}
	if !types.LevelAllows(client.Level, plan.Level) {
		return uuid.Nil, fmt.Errorf("client level %q vs plan level %q: %w", client.Level, plan.Level, ErrLevelMismatch)
	}

	if _, err := s.contractRepo.GetActiveByPair(ctx, nil, clientID, planID); err == nil {
		return uuid.Nil, fmt.Errorf("client %s plan %s: %w", clientID, planID, ErrAlreadyAssociated)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fmt.Errorf("lookup active contract: %w", err)
	}

	if terms.StartDate.IsZero() {
		terms.StartDate = time.Now().UTC()
	}

	contract := &types.Contract{
		ClientID:       clientID,
		PlanID:         planID,
		Price:          terms.Price,
		DurationMonths: terms.DurationMonths,
		StartDate:      terms.StartDate,
		EndDate:        terms.StartDate.AddDate(0, terms.DurationMonths, 0),
		Conditions:     terms.Conditions,
		State:          types.ContractStateActive,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The partial unique index on (client_id, plan_id, state=active)
		// makes this insert the serialization point for concurrent calls.
		if _, err := s.contractRepo.Create(ctx, tx, contract); err != nil {
			return fmt.Errorf("create contract: %w", err)
		}
		if err := s.addReferences(ctx, tx, clientID, planID); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		s.log.Error("Associate unit of work rolled back", "client_id", clientID, "plan_id", planID, "error", txErr)
		return uuid.Nil, fmt.Errorf("%w: %v", ErrTransactionAborted, txErr)
	}

	s.log.Info("Client associated to plan", "client_id", clientID, "plan_id", planID, "contract_id", contract.ID)
	s.events.Publish(ctx, MembershipEvent{
		Type:       EventAssociated,
		ClientID:   clientID,
		PlanID:     planID,
		ContractID: contract.ID,
		At:         time.Now().UTC(),
	})
	return contract.ID, nil
}

// Disassociate removes the client/plan edge. The client-held plan_ids set
// is the authoritative "is associated" signal, so an edge without an
// active contract is still removable. An active contract blocks removal
// unless force is set, in which case it is cancelled inside the same unit
// of work. Tracking cleanup happens after commit and cannot fail the call.
func (s *associationService) Disassociate(ctx context.Context, clientID, planID uuid.UUID, force bool) (DisassociateResult, error) {
	var result DisassociateResult

	client, _, err := s.loadPair(ctx, clientID, planID)
	if err != nil {
		return result, err
	}

	heldPlans, err := types.DecodeUUIDSet(client.PlanIDs)
	if err != nil {
		return result, fmt.Errorf("decode client plan set: %w", err)
	}
	if !types.UUIDSetContains(heldPlans, planID) {
		return result, fmt.Errorf("client %s plan %s: %w", clientID, planID, ErrNotAssociated)
	}

	active, err := s.contractRepo.GetActiveByPair(ctx, nil, clientID, planID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return result, fmt.Errorf("lookup active contract: %w", err)
	}
	if active != nil && !force {
		return result, fmt.Errorf("contract %s: %w", active.ID, ErrForceRequired)
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read inside the transaction so the cancel and both set
		// removals operate on the same snapshot they commit against.
		contract, err := s.contractRepo.GetActiveByPair(ctx, tx, clientID, planID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup active contract: %w", err)
		}
		if contract != nil {
			if err := TransitionContract(contract, types.ContractStateCancelled); err != nil {
				return err
			}
			if err := s.contractRepo.Update(ctx, tx, contract); err != nil {
				return fmt.Errorf("cancel contract: %w", err)
			}
			result.ContractCancelled = true
		}
		if err := s.removeReferences(ctx, tx, clientID, planID); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		result.ContractCancelled = false
		s.log.Error("Disassociate unit of work rolled back", "client_id", clientID, "plan_id", planID, "error", txErr)
		return result, fmt.Errorf("%w: %v", ErrTransactionAborted, txErr)
	}

	// The relationship removal is committed and authoritative from here on;
	// tracking cleanup is advisory and its failures stay out of our error.
	result.Compensation = s.compensation.RemoveTrackingFor(ctx, clientID, planID, "disassociate")

	s.log.Info("Client disassociated from plan",
		"client_id", clientID,
		"plan_id", planID,
		"contract_cancelled", result.ContractCancelled,
		"tracking_removed", result.Compensation.Removed,
	)
	s.events.Publish(ctx, MembershipEvent{
		Type:     EventDisassociated,
		ClientID: clientID,
		PlanID:   planID,
		At:       time.Now().UTC(),
	})
	return result, nil
}

// Renew extends a contract's end date in place. A single-row update, so no
// cross-collection unit of work is needed: the reference sets do not change.
func (s *associationService) Renew(ctx context.Context, contractID uuid.UUID, additionalMonths int) error {
	contract, err := s.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("contract %s: %w", contractID, ErrContractNotFound)
		}
		return fmt.Errorf("load contract: %w", err)
	}

	if err := RenewContract(contract, additionalMonths, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.contractRepo.Update(ctx, nil, contract); err != nil {
		return fmt.Errorf("persist renewal: %w", err)
	}

	s.log.Info("Contract renewed", "contract_id", contractID, "months_added", additionalMonths, "new_end_date", contract.EndDate)
	s.events.Publish(ctx, MembershipEvent{
		Type:       EventRenewed,
		ClientID:   contract.ClientID,
		PlanID:     contract.PlanID,
		ContractID: contract.ID,
		At:         time.Now().UTC(),
	})
	return nil
}

// ExpireDue sweeps active contracts whose end date has passed and marks
// them expired. Expired contracts stay renewable; the association itself
// is untouched.
func (s *associationService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	expired := 0
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		due, err := s.contractRepo.ListActiveEndedBefore(ctx, tx, now)
		if err != nil {
			return fmt.Errorf("list due contracts: %w", err)
		}
		for _, contract := range due {
			if err := TransitionContract(contract, types.ContractStateExpired); err != nil {
				return err
			}
			if err := s.contractRepo.Update(ctx, tx, contract); err != nil {
				return fmt.Errorf("expire contract %s: %w", contract.ID, err)
			}
			expired++
		}
		return nil
	})
	if txErr != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransactionAborted, txErr)
	}
	if expired > 0 {
		s.log.Info("Expired due contracts", "count", expired)
	}
	return expired, nil
}

// RemoveClient deletes a client record. A client still holding plans is
// protected by the same force gate as disassociation: with force set, each
// held plan is torn down through Disassociate first, so contracts are
// cancelled and both reference sets stay symmetric.
func (s *associationService) RemoveClient(ctx context.Context, clientID uuid.UUID, force bool) error {
	client, err := s.clientRepo.GetByID(ctx, nil, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("client %s: %w", clientID, ErrClientNotFound)
		}
		return fmt.Errorf("load client: %w", err)
	}

	heldPlans, err := types.DecodeUUIDSet(client.PlanIDs)
	if err != nil {
		return fmt.Errorf("decode client plan set: %w", err)
	}
	if len(heldPlans) > 0 && !force {
		return fmt.Errorf("client %s holds %d plan(s): %w", clientID, len(heldPlans), ErrForceRequired)
	}

	for _, planID := range heldPlans {
		if _, err := s.Disassociate(ctx, clientID, planID, true); err != nil {
			return fmt.Errorf("tear down plan %s: %w", planID, err)
		}
	}

	if err := s.clientRepo.Delete(ctx, nil, clientID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	s.log.Info("Client removed", "client_id", clientID, "plans_torn_down", len(heldPlans))
	return nil
}

func (s *associationService) loadPair(ctx context.Context, clientID, planID uuid.UUID) (*types.Client, *types.Plan, error) {
	client, err := s.clientRepo.GetByID(ctx, nil, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("client %s: %w", clientID, ErrClientNotFound)
		}
		return nil, nil, fmt.Errorf("load client: %w", err)
	}
	plan, err := s.planRepo.GetByID(ctx, nil, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("plan %s: %w", planID, ErrPlanNotFound)
		}
		return nil, nil, fmt.Errorf("load plan: %w", err)
	}
	return client, plan, nil
}

// addReferences mirrors the edge into both denormalized sets inside tx.
// Both writes ride the same transaction; partial application of one side
// is exactly the state this service exists to prevent.
func (s *associationService) addReferences(ctx context.Context, tx *gorm.DB, clientID, planID uuid.UUID) error {
	client, err := s.clientRepo.GetByID(ctx, tx, clientID)
	if err != nil {
		return fmt.Errorf("reload client: %w", err)
	}
	planIDs, err := types.DecodeUUIDSet(client.PlanIDs)
	if err != nil {
		return fmt.Errorf("decode client plan set: %w", err)
	}
	if err := s.clientRepo.SetPlanIDs(ctx, tx, clientID, types.UUIDSetAdd(planIDs, planID)); err != nil {
		return fmt.Errorf("update client plan set: %w", err)
	}

	plan, err := s.planRepo.GetByID(ctx, tx, planID)
	if err != nil {
		return fmt.Errorf("reload plan: %w", err)
	}
	clientIDs, err := types.DecodeUUIDSet(plan.ClientIDs)
	if err != nil {
		return fmt.Errorf("decode plan client set: %w", err)
	}
	if err := s.planRepo.SetClientIDs(ctx, tx, planID, types.UUIDSetAdd(clientIDs, clientID)); err != nil {
		return fmt.Errorf("update plan client set: %w", err)
	}
	return nil
}

func (s *associationService) removeReferences(ctx context.Context, tx *gorm.DB, clientID, planID uuid.UUID) error {
	client, err := s.clientRepo.GetByID(ctx, tx, clientID)
	if err != nil {
		return fmt.Errorf("reload client: %w", err)
	}
	planIDs, err := types.DecodeUUIDSet(client.PlanIDs)
	if err != nil {
		return fmt.Errorf("decode client plan set: %w", err)
	}
	if err := s.clientRepo.SetPlanIDs(ctx, tx, clientID, types.UUIDSetRemove(planIDs, planID)); err != nil {
		return fmt.Errorf("update client plan set: %w", err)
	}

	plan, err := s.planRepo.GetByID(ctx, tx, planID)
	if err != nil {
		return fmt.Errorf("reload plan: %w", err)
	}
	clientIDs, err := types.DecodeUUIDSet(plan.ClientIDs)
	if err != nil {
		return fmt.Errorf("decode plan client set: %w", err)
	}
	if err := s.planRepo.SetClientIDs(ctx, tx, planID, types.UUIDSetRemove(clientIDs, clientID)); err != nil {
		return fmt.Errorf("update plan client set: %w", err)
	}
	return nil
}
