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

type TaskRepo interface {
	Create(dbc dbctx.Context, t *domain.Task) error
	FindRecentByName(dbc dbctx.Context, ownerID, projectID uuid.UUID, name string, since time.Time) (*domain.Task, error)
	// ListOpen returns tasks that are neither completed nor archived and whose
	// project is not deleted, newest first.
	ListOpen(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.Task, error)
	ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*domain.Task, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ArchiveCompletedBefore(dbc dbctx.Context, cutoff time.Time) (int64, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) Create(dbc dbctx.Context, t *domain.Task) error {
	if t == nil || t.OwnerID == uuid.Nil || t.ProjectID == uuid.Nil {
		return fmt.Errorf("task requires owner_id and project_id")
	}
	return conn(dbc, r.db).Create(t).Error
}

func (r *taskRepo) FindRecentByName(dbc dbctx.Context, ownerID, projectID uuid.UUID, name string, since time.Time) (*domain.Task, error) {
	var rows []*domain.Task
	if err := conn(dbc, r.db).
		Where("owner_id = ? AND project_id = ? AND LOWER(name) = ? AND created_at >= ?", ownerID, projectID, lowerName(name), since).
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

func (r *taskRepo) ListOpen(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.Task, error) {
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	var rows []*domain.Task
	err := conn(dbc, r.db).
		Where("owner_id = ? AND completed = ? AND archived_at IS NULL", ownerID, false).
		Where("project_id IN (?)", r.db.Model(&domain.Project{}).
			Select("id").Where("owner_id = ? AND status <> ?", ownerID, ws.StatusDeleted)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *taskRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	var rows []*domain.Task
	err := conn(dbc, r.db).
		Where("owner_id = ? AND archived_at IS NULL", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *taskRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing task id")
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return conn(dbc, r.db).Model(&domain.Task{}).Where("id = ?", id).Updates(updates).Error
}

func (r *taskRepo) ArchiveCompletedBefore(dbc dbctx.Context, cutoff time.Time) (int64, error) {
	now := time.Now().UTC()
	res := conn(dbc, r.db).Model(&domain.Task{}).
		Where("completed = ? AND archived_at IS NULL AND completed_at IS NOT NULL AND completed_at < ?", true, cutoff).
		Updates(map[string]interface{}{"archived_at": now, "updated_at": now})
	return res.RowsAffected, res.Error
}
