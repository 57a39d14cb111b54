package workspace

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/domain"
	ws "github.com/atmohq/atmo-backend/internal/domain/workspace"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type MilestoneRepo interface {
	Create(dbc dbctx.Context, m *domain.Milestone) error
	FindRecentByName(dbc dbctx.Context, ownerID, projectID uuid.UUID, name string, since time.Time) (*domain.Milestone, error)
	// ListOpenByProject returns milestones that are neither completed nor deleted.
	ListOpenByProject(dbc dbctx.Context, ownerID, projectID uuid.UUID) ([]*domain.Milestone, error)
	ListForContext(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.Milestone, error)
	ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*domain.Milestone, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type milestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return &milestoneRepo{db: db, log: baseLog.With("repo", "MilestoneRepo")}
}

func (r *milestoneRepo) live(dbc dbctx.Context, ownerID uuid.UUID) *gorm.DB {
	return conn(dbc, r.db).Model(&domain.Milestone{}).
		Where("owner_id = ? AND status <> ?", ownerID, ws.StatusDeleted)
}

func (r *milestoneRepo) Create(dbc dbctx.Context, m *domain.Milestone) error {
	if m == nil || m.OwnerID == uuid.Nil || m.ProjectID == uuid.Nil {
		return fmt.Errorf("milestone requires owner_id and project_id")
	}
	return conn(dbc, r.db).Create(m).Error
}

func (r *milestoneRepo) FindRecentByName(dbc dbctx.Context, ownerID, projectID uuid.UUID, name string, since time.Time) (*domain.Milestone, error) {
	var rows []*domain.Milestone
	if err := r.live(dbc, ownerID).
		Where("project_id = ? AND LOWER(name) = ? AND created_at >= ?", projectID, lowerName(name), since).
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

func (r *milestoneRepo) ListOpenByProject(dbc dbctx.Context, ownerID, projectID uuid.UUID) ([]*domain.Milestone, error) {
	var rows []*domain.Milestone
	err := r.live(dbc, ownerID).
		Where("project_id = ? AND status <> ?", projectID, ws.StatusCompleted).
		Order("due_date IS NULL").Order("due_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *milestoneRepo) ListForContext(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.Milestone, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []*domain.Milestone
	err := r.live(dbc, ownerID).
		Order("due_date IS NULL").Order("due_date ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *milestoneRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*domain.Milestone, error) {
	var rows []*domain.Milestone
	err := r.live(dbc, ownerID).Order("due_date IS NULL").Order("due_date ASC").Find(&rows).Error
	return rows, err
}

func (r *milestoneRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing milestone id")
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return conn(dbc, r.db).Model(&domain.Milestone{}).Where("id = ?", id).Updates(updates).Error
}
