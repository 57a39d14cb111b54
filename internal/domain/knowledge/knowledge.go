package knowledge

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultItemType = "summary"

// Item is one entry of the user's "Digital Brain". It grounds document generation.
type Item struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	ProjectID  *uuid.UUID     `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Name       string         `gorm:"type:text;not null" json:"name"`
	Content    string         `gorm:"type:text;not null;default:''" json:"content"`
	Type       string         `gorm:"type:text;not null;default:'summary'" json:"type"`
	Tags       datatypes.JSON `json:"tags"`
	SourceURL  string         `gorm:"type:text;not null;default:''" json:"source_url,omitempty"`
	OccurredAt time.Time      `gorm:"not null;index" json:"occurred_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string { return "knowledge_items" }

func (k *Item) BeforeCreate(*gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	if len(k.Tags) == 0 {
		k.Tags = datatypes.JSON("[]")
	}
	return nil
}

func (k *Item) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	k.Tags = datatypes.JSON(b)
}

func (k *Item) TagList() []string {
	var out []string
	if len(k.Tags) > 0 {
		_ = json.Unmarshal(k.Tags, &out)
	}
	return out
}
