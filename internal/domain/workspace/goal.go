package workspace

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GoalStatusPlanned    = "planned"
	GoalStatusInProgress = "in-progress"
	GoalStatusCompleted  = "completed"
	GoalStatusDeleted    = "deleted"
)

type Goal struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Name        string     `gorm:"type:text;not null;index" json:"name"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	Status      string     `gorm:"type:text;not null;default:'planned';index" json:"status"`
	Priority    string     `gorm:"type:text;not null;default:'medium'" json:"priority"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	OrderIndex  int        `gorm:"not null;default:0" json:"order"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Goal) TableName() string { return "project_goals" }

func (g *Goal) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
