package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// levelRank orders training levels so membership checks can compare them.
var levelRank = map[string]int{
	LevelBeginner:     0,
	LevelIntermediate: 1,
	LevelAdvanced:     2,
}

// LevelAllows reports whether a client at clientLevel may join a plan
// requiring planLevel. Clients can always train below their own level.
func LevelAllows(clientLevel, planLevel string) bool {
	cr, ok := levelRank[clientLevel]
	if !ok {
		return false
	}
	pr, ok := levelRank[planLevel]
	if !ok {
		return false
	}
	return cr >= pr
}

type Client struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Email     string         `gorm:"column:email;uniqueIndex" json:"email"`
	Phone     string         `gorm:"column:phone" json:"phone"`
	BirthDate *time.Time     `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Level     string         `gorm:"column:level;not null;default:beginner" json:"level"`
	PlanIDs   datatypes.JSON `gorm:"column:plan_ids;type:jsonb" json:"plan_ids"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Client) TableName() string { return "client" }
