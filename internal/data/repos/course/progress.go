package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/course-portal-backend/internal/domain"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type ProgressRepo interface {
	Upsert(dbc dbctx.Context, row *types.Progress) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Progress, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) Upsert(dbc dbctx.Context, row *types.Progress) error {
	if row == nil {
		return nil
	}
	row.UpdatedAt = time.Now()
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "material_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_completed", "completed_at", "updated_at"}),
		}).
		Create(row).Error
}

func (r *progressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Progress, error) {
	var results []*types.Progress
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Order("updated_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
