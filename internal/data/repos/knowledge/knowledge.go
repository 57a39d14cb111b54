package knowledge

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/domain"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type KnowledgeItemRepo interface {
	Create(dbc dbctx.Context, item *domain.KnowledgeItem) error
	ListRecent(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.KnowledgeItem, error)
}

type knowledgeItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKnowledgeItemRepo(db *gorm.DB, baseLog *logger.Logger) KnowledgeItemRepo {
	return &knowledgeItemRepo{db: db, log: baseLog.With("repo", "KnowledgeItemRepo")}
}

func (r *knowledgeItemRepo) Create(dbc dbctx.Context, item *domain.KnowledgeItem) error {
	if item == nil || item.OwnerID == uuid.Nil {
		return fmt.Errorf("missing owner_id")
	}
	if item.OccurredAt.IsZero() {
		item.OccurredAt = time.Now().UTC()
	}
	return dbc.DB(r.db).Create(item).Error
}

func (r *knowledgeItemRepo) ListRecent(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.KnowledgeItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []*domain.KnowledgeItem
	err := dbc.DB(r.db).
		Where("owner_id = ?", ownerID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

type InsightRepo interface {
	Create(dbc dbctx.Context, in *domain.Insight) error
	FindRecentByTitle(dbc dbctx.Context, ownerID uuid.UUID, title, category string, since time.Time) (*domain.Insight, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type insightRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInsightRepo(db *gorm.DB, baseLog *logger.Logger) InsightRepo {
	return &insightRepo{db: db, log: baseLog.With("repo", "InsightRepo")}
}

func (r *insightRepo) Create(dbc dbctx.Context, in *domain.Insight) error {
	if in == nil || in.OwnerID == uuid.Nil {
		return fmt.Errorf("missing owner_id")
	}
	return dbc.DB(r.db).Create(in).Error
}

func (r *insightRepo) FindRecentByTitle(dbc dbctx.Context, ownerID uuid.UUID, title, category string, since time.Time) (*domain.Insight, error) {
	var rows []*domain.Insight
	if err := dbc.DB(r.db).
		Where("owner_id = ? AND LOWER(title) = ? AND category = ? AND created_at >= ?",
			ownerID, strings.ToLower(strings.TrimSpace(title)), category, since).
		Order("created_at DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *insightRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing insight id")
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).Model(&domain.Insight{}).Where("id = ?", id).Updates(updates).Error
}
