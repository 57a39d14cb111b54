package workspace

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Milestone struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Name        string     `gorm:"type:text;not null;index" json:"name"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	Status      string     `gorm:"type:text;not null;default:'planned';index" json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Milestone) TableName() string { return "project_milestones" }

func (m *Milestone) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Open reports whether the milestone still counts as a deadline signal.
func (m *Milestone) Open() bool {
	return m != nil && m.Status != StatusCompleted && m.Status != StatusDeleted
}
