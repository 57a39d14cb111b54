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

type ProjectRepo interface {
	Create(dbc dbctx.Context, p *domain.Project) error
	GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*domain.Project, error)
	// FindRecentByName returns the newest non-deleted project whose name matches
	// case-insensitively and that was created at or after since.
	FindRecentByName(dbc dbctx.Context, ownerID uuid.UUID, name string, since time.Time) (*domain.Project, error)
	FindByName(dbc dbctx.Context, ownerID uuid.UUID, name string) ([]*domain.Project, error)
	SearchByName(dbc dbctx.Context, ownerID uuid.UUID, fragment string) ([]*domain.Project, error)
	ListActive(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.Project, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByName(dbc dbctx.Context, ownerID uuid.UUID, name string) ([]*domain.Project, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (r *projectRepo) live(dbc dbctx.Context, ownerID uuid.UUID) *gorm.DB {
	return conn(dbc, r.db).Model(&domain.Project{}).
		Where("owner_id = ? AND status <> ?", ownerID, ws.StatusDeleted)
}

func (r *projectRepo) Create(dbc dbctx.Context, p *domain.Project) error {
	if p == nil || p.OwnerID == uuid.Nil {
		return fmt.Errorf("missing owner_id")
	}
	return conn(dbc, r.db).Create(p).Error
}

func (r *projectRepo) GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*domain.Project, error) {
	var out domain.Project
	if err := r.live(dbc, ownerID).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *projectRepo) FindRecentByName(dbc dbctx.Context, ownerID uuid.UUID, name string, since time.Time) (*domain.Project, error) {
	var rows []*domain.Project
	if err := r.live(dbc, ownerID).
		Where("LOWER(name) = ? AND created_at >= ?", lowerName(name), since).
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

func (r *projectRepo) FindByName(dbc dbctx.Context, ownerID uuid.UUID, name string) ([]*domain.Project, error) {
	var rows []*domain.Project
	err := r.live(dbc, ownerID).
		Where("LOWER(name) = ?", lowerName(name)).
		Order("active DESC").Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *projectRepo) SearchByName(dbc dbctx.Context, ownerID uuid.UUID, fragment string) ([]*domain.Project, error) {
	var rows []*domain.Project
	err := r.live(dbc, ownerID).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(fragment)).
		Order("active DESC").Order("updated_at DESC").
		Limit(20).
		Find(&rows).Error
	return rows, err
}

func (r *projectRepo) ListActive(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*domain.Project, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []*domain.Project
	err := r.live(dbc, ownerID).
		Where("active = ?", true).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *projectRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing project id")
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return conn(dbc, r.db).Model(&domain.Project{}).Where("id = ?", id).Updates(updates).Error
}

func (r *projectRepo) SoftDeleteByName(dbc dbctx.Context, ownerID uuid.UUID, name string) ([]*domain.Project, error) {
	rows, err := r.FindByName(dbc, ownerID, name)
	if err != nil || len(rows) == 0 {
		return rows, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.ID)
	}
	err = conn(dbc, r.db).Model(&domain.Project{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     ws.StatusDeleted,
			"active":     false,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
