package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atmohq/atmo-backend/internal/domain"
	domainuser "github.com/atmohq/atmo-backend/internal/domain/user"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type ProfileRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Profile, error)
	// Ensure inserts a profile for id if none exists. Existing rows are left untouched.
	Ensure(dbc dbctx.Context, id uuid.UUID, email, fullName string) error
	// TouchStreak applies the daily activity streak rule in one statement:
	// same day keeps the count, the next day increments it, any gap resets to 1.
	TouchStreak(dbc dbctx.Context, id uuid.UUID, now time.Time) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Profile, error) {
	var out domain.Profile
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *profileRepo) Ensure(dbc dbctx.Context, id uuid.UUID, email, fullName string) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing profile id")
	}
	p := &domain.Profile{ID: id, Email: email, FullName: fullName}
	return dbc.DB(r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(p).Error
}

func (r *profileRepo) TouchStreak(dbc dbctx.Context, id uuid.UUID, now time.Time) error {
	now = now.UTC()
	today := now.Format(domainuser.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(domainuser.DateLayout)
	return dbc.DB(r.db).Exec(`
		UPDATE profiles SET
			streak_days = CASE
				WHEN last_active_date = ? THEN streak_days
				WHEN last_active_date = ? THEN streak_days + 1
				ELSE 1
			END,
			last_active_date = ?,
			updated_at = ?
		WHERE id = ?
	`, today, yesterday, today, now, id).Error
}
