package workspace

import (
	"strings"

	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
)

func conn(dbc dbctx.Context, fallback *gorm.DB) *gorm.DB {
	return dbc.DB(fallback)
}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?.
func likePattern(fragment string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(fragment))) + "%"
}

func lowerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

const priorityRank = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"
