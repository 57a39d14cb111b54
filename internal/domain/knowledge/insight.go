package knowledge

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InsightArticle     = "article"
	InsightOpportunity = "opportunity"
	InsightTrend       = "trend"
	InsightNote        = "note"
)

const (
	CategoryPersonal = "personal"
	CategoryProject  = "project"
)

// Insight.SourceURL only ever holds a link the user supplied.
type Insight struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Title       string     `gorm:"type:text;not null;index" json:"title"`
	Summary     string     `gorm:"type:text;not null;default:''" json:"summary"`
	InsightType string     `gorm:"type:text;not null;default:'note'" json:"insight_type"`
	Category    string     `gorm:"type:text;not null;default:'personal';index" json:"category"`
	SourceURL   string     `gorm:"type:text;not null;default:''" json:"source_url,omitempty"`
	Relevance   int        `gorm:"not null;default:50" json:"relevance"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Insight) TableName() string { return "user_insights" }

func (i *Insight) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func ValidInsightType(t string) bool {
	switch t {
	case InsightArticle, InsightOpportunity, InsightTrend, InsightNote:
		return true
	}
	return false
}
