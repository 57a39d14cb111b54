package outputs

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/domain"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type OutputRepo interface {
	Create(dbc dbctx.Context, o *domain.Output) error
	GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*domain.Output, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*domain.Output, error)
}

type outputRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutputRepo(db *gorm.DB, baseLog *logger.Logger) OutputRepo {
	return &outputRepo{db: db, log: baseLog.With("repo", "OutputRepo")}
}

func (r *outputRepo) Create(dbc dbctx.Context, o *domain.Output) error {
	if o == nil || o.UserID == uuid.Nil {
		return fmt.Errorf("missing user_id")
	}
	return dbc.DB(r.db).Create(o).Error
}

func (r *outputRepo) GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*domain.Output, error) {
	var out domain.Output
	if err := dbc.DB(r.db).Where("user_id = ? AND id = ?", userID, id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser omits content_data; the viewer fetches a single output for the payload.
func (r *outputRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*domain.Output, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []*domain.Output
	err := dbc.DB(r.db).
		Select("id", "user_id", "filename", "file_type", "document_type", "title", "file_size", "created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
