package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackingRecord is a physical measurement taken while a client trains
// under a plan. It is attributed to the client/plan relationship but not
// transactionally tied to it; disassociation cleans it up best-effort.
type TrackingRecord struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	Client     *Client        `gorm:"foreignKey:ClientID;references:ID" json:"client,omitempty"`
	PlanID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	WeightKG   float64        `gorm:"column:weight_kg" json:"weight_kg"`
	HeightCM   float64        `gorm:"column:height_cm" json:"height_cm"`
	BodyFatPct float64        `gorm:"column:body_fat_pct" json:"body_fat_pct"`
	Notes      string         `gorm:"column:notes" json:"notes"`
	MeasuredAt time.Time      `gorm:"column:measured_at;not null;index" json:"measured_at"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TrackingRecord) TableName() string { return "tracking_record" }
