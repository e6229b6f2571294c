package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/course-portal-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.AllModels()...)
}

// EnsureIndexes adds the composite indexes the list queries rely on.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"idx_material_display_order", `CREATE INDEX IF NOT EXISTS idx_material_display_order ON material(sort_order ASC, created_at DESC);`},
		{"idx_comment_discussion_created", `CREATE INDEX IF NOT EXISTS idx_comment_discussion_created ON comment(discussion_id, created_at);`},
		{"idx_comment_portfolio_created", `CREATE INDEX IF NOT EXISTS idx_comment_portfolio_created ON comment(portfolio_id, created_at);`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
