package workspace

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPlanned    = "planned"
	StatusActive     = "active"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusDeleted    = "deleted"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Project is the owner-scoped root of goals, tasks and milestones.
// A deleted project keeps its row with Status "deleted" and Active false.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string    `gorm:"type:text;not null;index" json:"name"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Status      string    `gorm:"type:text;not null;default:'planned';index" json:"status"`
	Priority    string    `gorm:"type:text;not null;default:'medium'" json:"priority"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	Color       string    `gorm:"type:text;not null;default:''" json:"color"`
	Progress    int       `gorm:"not null;default:0" json:"progress"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Project) IsDeleted() bool { return p != nil && p.Status == StatusDeleted }
