package course

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/course-portal-backend/internal/data/repos/policy"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type WeekRepo interface {
	List(dbc dbctx.Context) ([]*types.Week, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Week, error)
	Current(dbc dbctx.Context) (*types.Week, error)
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	SetCurrent(dbc dbctx.Context, id uuid.UUID) (int64, error)
	UpsertByNumber(dbc dbctx.Context, weeks []*types.Week) error
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type weekRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeekRepo(db *gorm.DB, baseLog *logger.Logger) WeekRepo {
	return &weekRepo{db: db, log: baseLog.With("repo", "WeekRepo")}
}

func (r *weekRepo) List(dbc dbctx.Context) ([]*types.Week, error) {
	var results []*types.Week
	if err := dbc.DB(r.db).Order("week_number ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *weekRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Week, error) {
	var w types.Week
	if err := dbc.DB(r.db).Where("id = ?", id).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Current returns nil without error when no week is marked current.
func (r *weekRepo) Current(dbc dbctx.Context) (*types.Week, error) {
	var results []*types.Week
	if err := dbc.DB(r.db).Where("is_current = ?", true).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *weekRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	fields["updated_at"] = time.Now()
	q := dbc.DB(r.db).Model(&types.Week{}).Where("id = ?", id)
	res := policy.Instructor(q, dbc).Updates(fields)
	return res.RowsAffected, res.Error
}

// SetCurrent marks one week current and clears the flag on every other week in a
// single transaction. Zero rows means the caller may not change weeks or the week is missing.
func (r *weekRepo) SetCurrent(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		q := tx.Model(&types.Week{}).Where("id = ?", id)
		res := policy.Instructor(q, dbc).Updates(map[string]interface{}{"is_current": true, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Model(&types.Week{}).
			Where("id <> ? AND is_current = ?", id, true).
			Updates(map[string]interface{}{"is_current": false, "updated_at": now}).Error
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// UpsertByNumber is unscoped and only used by seeding tools.
func (r *weekRepo) UpsertByNumber(dbc dbctx.Context, weeks []*types.Week) error {
	if len(weeks) == 0 {
		return nil
	}
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "week_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "is_current", "resources", "updated_at"}),
	}).Create(&weeks).Error
}

func (r *weekRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := dbc.DB(r.db).Model(&types.Week{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
