package workspace

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task priority is always derived from deadlines, never taken from model output.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	GoalID      *uuid.UUID `gorm:"type:uuid;index" json:"goal_id,omitempty"`
	Name        string     `gorm:"type:text;not null;index" json:"name"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	Priority    string     `gorm:"type:text;not null;default:'medium'" json:"priority"`
	Completed   bool       `gorm:"not null;default:false;index" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ArchivedAt  *time.Time `gorm:"index" json:"archived_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Task) TableName() string { return "project_tasks" }

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
