package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContractStateActive    = "active"
	ContractStateCancelled = "cancelled"
	ContractStateExpired   = "expired"
)

// Contract is the priced, time-bounded agreement behind a client/plan
// association. At most one active contract may exist per pair; renewals
// extend the same row instead of inserting a successor.
type Contract struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	Client         *Client        `gorm:"foreignKey:ClientID;references:ID" json:"client,omitempty"`
	PlanID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	Plan           *Plan          `gorm:"foreignKey:PlanID;references:ID" json:"plan,omitempty"`
	Price          float64        `gorm:"column:price;not null" json:"price"`
	DurationMonths int            `gorm:"column:duration_months;not null" json:"duration_months"`
	StartDate      time.Time      `gorm:"column:start_date;not null" json:"start_date"`
	EndDate        time.Time      `gorm:"column:end_date;not null" json:"end_date"`
	Conditions     string         `gorm:"column:conditions" json:"conditions"`
	State          string         `gorm:"column:state;not null;default:active;index" json:"state"`
	Renewals       int            `gorm:"column:renewals;not null;default:0" json:"renewals"`
	RenewedAt      *time.Time     `gorm:"column:renewed_at" json:"renewed_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Contract) TableName() string { return "contract" }
