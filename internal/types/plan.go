package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PlanStateActive    = "active"
	PlanStateCancelled = "cancelled"
	PlanStateFinished  = "finished"
)

type Plan struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Description  string         `gorm:"column:description" json:"description"`
	Level        string         `gorm:"column:level;not null;default:beginner" json:"level"`
	MonthlyPrice float64        `gorm:"column:monthly_price;not null;default:0" json:"monthly_price"`
	State        string         `gorm:"column:state;not null;default:active;index" json:"state"`
	ClientIDs    datatypes.JSON `gorm:"column:client_ids;type:jsonb" json:"client_ids"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Plan) TableName() string { return "plan" }
