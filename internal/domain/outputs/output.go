package outputs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FileTypePDF      = "pdf"
	FileTypeMarkdown = "markdown"
)

// Content is the JSON payload the document viewer reads.
type Content struct {
	DocumentContent    string          `json:"documentContent,omitempty"`
	PDFBase64          string          `json:"pdfBase64,omitempty"`
	StructuredDocument json.RawMessage `json:"structuredDocument,omitempty"`
	StorageURL         string          `json:"storageUrl,omitempty"`
}

type Output struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Filename     string         `gorm:"type:text;not null" json:"filename"`
	FileType     string         `gorm:"type:text;not null" json:"fileType"`
	DocumentType string         `gorm:"type:text;not null;default:''" json:"documentType"`
	Title        string         `gorm:"type:text;not null;default:''" json:"title"`
	ContentData  datatypes.JSON `json:"contentData"`
	FileSize     int64          `gorm:"not null;default:0" json:"fileSize"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

func (Output) TableName() string { return "atmo_outputs" }

func (o *Output) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (o *Output) SetContent(c Content) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	o.ContentData = datatypes.JSON(b)
	return nil
}

func (o *Output) Content() (Content, error) {
	var c Content
	if len(o.ContentData) == 0 {
		return c, nil
	}
	err := json.Unmarshal(o.ContentData, &c)
	return c, err
}
