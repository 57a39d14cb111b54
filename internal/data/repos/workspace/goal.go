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

type GoalRepo interface {
	Create(dbc dbctx.Context, g *domain.Goal) error
	GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*domain.Goal, error)
	FindByProjectAndName(dbc dbctx.Context, ownerID, projectID uuid.UUID, name string) (*domain.Goal, error)
	FindByName(dbc dbctx.Context, ownerID uuid.UUID, name string) ([]*domain.Goal, error)
	ListForContext(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.Goal, error)
	ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*domain.Goal, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByName(dbc dbctx.Context, ownerID uuid.UUID, projectID *uuid.UUID, name string) ([]*domain.Goal, error)
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return &goalRepo{db: db, log: baseLog.With("repo", "GoalRepo")}
}

func (r *goalRepo) live(dbc dbctx.Context, ownerID uuid.UUID) *gorm.DB {
	return conn(dbc, r.db).Model(&domain.Goal{}).
		Where("owner_id = ? AND status <> ?", ownerID, ws.GoalStatusDeleted)
}

func (r *goalRepo) Create(dbc dbctx.Context, g *domain.Goal) error {
	if g == nil || g.OwnerID == uuid.Nil || g.ProjectID == uuid.Nil {
		return fmt.Errorf("goal requires owner_id and project_id")
	}
	return conn(dbc, r.db).Create(g).Error
}

func (r *goalRepo) GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*domain.Goal, error) {
	var out domain.Goal
	if err := r.live(dbc, ownerID).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *goalRepo) FindByProjectAndName(dbc dbctx.Context, ownerID, projectID uuid.UUID, name string) (*domain.Goal, error) {
	var rows []*domain.Goal
	if err := r.live(dbc, ownerID).
		Where("project_id = ? AND LOWER(name) = ?", projectID, lowerName(name)).
		Order("updated_at DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *goalRepo) FindByName(dbc dbctx.Context, ownerID uuid.UUID, name string) ([]*domain.Goal, error) {
	var rows []*domain.Goal
	err := r.live(dbc, ownerID).
		Where("LOWER(name) = ?", lowerName(name)).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *goalRepo) ListForContext(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.Goal, error) {
	if limit <= 0 {
		limit = 12
	}
	var rows []*domain.Goal
	err := r.live(dbc, ownerID).
		Order(priorityRank).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *goalRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*domain.Goal, error) {
	var rows []*domain.Goal
	err := r.live(dbc, ownerID).Order("order_index ASC").Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *goalRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing goal id")
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return conn(dbc, r.db).Model(&domain.Goal{}).Where("id = ?", id).Updates(updates).Error
}

func (r *goalRepo) SoftDeleteByName(dbc dbctx.Context, ownerID uuid.UUID, projectID *uuid.UUID, name string) ([]*domain.Goal, error) {
	q := r.live(dbc, ownerID).Where("LOWER(name) = ?", lowerName(name))
	if projectID != nil && *projectID != uuid.Nil {
		q = q.Where("project_id = ?", *projectID)
	}
	var rows []*domain.Goal
	if err := q.Find(&rows).Error; err != nil || len(rows) == 0 {
		return rows, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, g := range rows {
		ids = append(ids, g.ID)
	}
	err := conn(dbc, r.db).Model(&domain.Goal{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     ws.GoalStatusDeleted,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
