package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/repos"
)

// CompensationResult reports the outcome of a best-effort cleanup. Err is
// informational: by the time compensation runs, the disassociation has
// already committed and cannot be failed retroactively.
type CompensationResult struct {
	Removed int64  `json:"removed"`
	Err     string `json:"error,omitempty"`
}

// CompensationRunner deletes tracking history tied to a removed client/plan
// relationship. It runs outside the coordinator's unit of work and never
// propagates a failure to the caller.
type CompensationRunner struct {
	log          *logger.Logger
	trackingRepo repos.TrackingRecordRepo
}

func NewCompensationRunner(baseLog *logger.Logger, trackingRepo repos.TrackingRecordRepo) *CompensationRunner {
	return &CompensationRunner{
		log:          baseLog.With("service", "CompensationRunner"),
		trackingRepo: trackingRepo,
	}
}

func (r *CompensationRunner) RemoveTrackingFor(ctx context.Context, clientID, planID uuid.UUID, reason string) (result CompensationResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result.Err = fmt.Sprintf("panic: %v", rec)
			r.log.Error("Tracking cleanup panicked", "client_id", clientID, "plan_id", planID, "reason", reason, "panic", rec)
		}
	}()

	removed, err := r.trackingRepo.DeleteByClientAndPlan(ctx, nil, clientID, planID)
	if err != nil {
		// Logged, never returned as a call failure.
		r.log.Error("Tracking cleanup failed", "client_id", clientID, "plan_id", planID, "reason", reason, "error", err)
		result.Err = err.Error()
		return result
	}

	result.Removed = removed
	r.log.Info("Tracking cleanup finished", "client_id", clientID, "plan_id", planID, "reason", reason, "removed", removed)
	return result
}
