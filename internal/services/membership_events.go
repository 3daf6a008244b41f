package services

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/gymbridge-backend/internal/logger"
)

const (
	EventAssociated    = "membership.associated"
	EventDisassociated = "membership.disassociated"
	EventRenewed       = "membership.renewed"
)

type MembershipEvent struct {
	Type       string    `json:"type"`
	ClientID   uuid.UUID `json:"client_id"`
	PlanID     uuid.UUID `json:"plan_id"`
	ContractID uuid.UUID `json:"contract_id,omitempty"`
	At         time.Time `json:"at"`
}

// MembershipEvents notifies other sessions of association changes.
// Publishing is best-effort: a lost event never fails the operation that
// produced it.
type MembershipEvents interface {
	Publish(ctx context.Context, event MembershipEvent)
	Close() error
}

type redisMembershipEvents struct {
	log     *logger.Logger
	rdb     *redis.Client
	channel string
}

// NewMembershipEvents returns a redis-backed publisher when REDIS_ADDR is
// set, otherwise a no-op one so the coordinator works without redis.
func NewMembershipEvents(log *logger.Logger) (MembershipEvents, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return NopMembershipEvents{}, nil
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_MEMBERSHIP_CHANNEL"))
	if ch == "" {
		ch = "gymbridge.membership"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &redisMembershipEvents{
		log:     log.With("service", "MembershipEvents"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (e *redisMembershipEvents) Publish(ctx context.Context, event MembershipEvent) {
	raw, err := json.Marshal(event)
	if err != nil {
		e.log.Warn("Could not encode membership event", "type", event.Type, "error", err)
		return
	}
	if err := e.rdb.Publish(ctx, e.channel, raw).Err(); err != nil {
		e.log.Warn("Could not publish membership event", "type", event.Type, "error", err)
	}
}

func (e *redisMembershipEvents) Close() error {
	return e.rdb.Close()
}

type NopMembershipEvents struct{}

func (NopMembershipEvents) Publish(ctx context.Context, event MembershipEvent) {}

func (NopMembershipEvents) Close() error { return nil }
