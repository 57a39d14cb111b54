package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// EnsureIndexes creates the case-insensitive lookup indexes used by entity
// resolution and the idempotency windows. The statements are valid on both
// Postgres and sqlite.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []struct{ name, sql string }{
		{"idx_projects_owner_lower_name", `CREATE INDEX IF NOT EXISTS idx_projects_owner_lower_name ON projects (owner_id, lower(name))`},
		{"idx_goals_owner_project_lower_name", `CREATE INDEX IF NOT EXISTS idx_goals_owner_project_lower_name ON project_goals (owner_id, project_id, lower(name))`},
		{"idx_tasks_owner_project_lower_name", `CREATE INDEX IF NOT EXISTS idx_tasks_owner_project_lower_name ON project_tasks (owner_id, project_id, lower(name))`},
		{"idx_milestones_owner_project_lower_name", `CREATE INDEX IF NOT EXISTS idx_milestones_owner_project_lower_name ON project_milestones (owner_id, project_id, lower(name))`},
		{"idx_insights_owner_lower_title_category", `CREATE INDEX IF NOT EXISTS idx_insights_owner_lower_title_category ON user_insights (owner_id, lower(title), category)`},
		{"idx_chat_messages_session_created_at", `CREATE INDEX IF NOT EXISTS idx_chat_messages_session_created_at ON chat_messages (session_id, created_at DESC)`},
		{"idx_chat_sessions_user_active", `CREATE INDEX IF NOT EXISTS idx_chat_sessions_user_active ON chat_sessions (user_id, active)`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}
