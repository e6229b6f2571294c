package course

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos/policy"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type MaterialRepo interface {
	List(dbc dbctx.Context, includeHidden bool) ([]*types.Material, error)
	ListByWeek(dbc dbctx.Context, weekID uuid.UUID, includeHidden bool) ([]*types.Material, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Material, error)
	Insert(dbc dbctx.Context, m *types.Material) (*types.Material, error)
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	ReferencedURLs(dbc dbctx.Context) ([]string, error)
}

type materialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMaterialRepo(db *gorm.DB, baseLog *logger.Logger) MaterialRepo {
	return &materialRepo{db: db, log: baseLog.With("repo", "MaterialRepo")}
}

// List joins each material with its week and orders by sort_order, newest first on ties.
func (r *materialRepo) List(dbc dbctx.Context, includeHidden bool) ([]*types.Material, error) {
	var results []*types.Material
	q := dbc.DB(r.db).Joins("Week")
	if !includeHidden {
		q = q.Where("material.is_visible = ?", true)
	}
	err := q.Order("material.sort_order ASC").
		Order("material.created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ListByWeek orders oldest first, the way a week page reads.
func (r *materialRepo) ListByWeek(dbc dbctx.Context, weekID uuid.UUID, includeHidden bool) ([]*types.Material, error) {
	var results []*types.Material
	q := dbc.DB(r.db).Joins("Week").Where("material.week_id = ?", weekID)
	if !includeHidden {
		q = q.Where("material.is_visible = ?", true)
	}
	if err := q.Order("material.created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *materialRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Material, error) {
	var m types.Material
	err := dbc.DB(r.db).Joins("Week").Where("material.id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Insert requires an approved instructor; anyone else gets ErrForbidden.
func (r *materialRepo) Insert(dbc dbctx.Context, m *types.Material) (*types.Material, error) {
	if m == nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	ok, err := policy.IsInstructor(r.db, dbc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.ErrForbidden
	}
	if err := dbc.DB(r.db).Omit("Week").Create(m).Error; err != nil {
		return nil, err
	}
	return r.GetByID(dbc, m.ID)
}

// Update is scoped to instructors; zero rows means denied or missing.
func (r *materialRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now()
	q := dbc.DB(r.db).Model(&types.Material{}).Where("id = ?", id)
	res := policy.Instructor(q, dbc).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *materialRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	q := dbc.DB(r.db).Where("id = ?", id)
	res := policy.Instructor(q, dbc).Delete(&types.Material{})
	return res.RowsAffected, res.Error
}

func (r *materialRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := dbc.DB(r.db).Model(&types.Material{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ReferencedURLs returns every content and inline media URL still pointed at by a material.
func (r *materialRepo) ReferencedURLs(dbc dbctx.Context) ([]string, error) {
	var rows []*types.Material
	if err := dbc.DB(r.db).Select("id", "content_url", "media_urls").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, m := range rows {
		if m.ContentURL != "" {
			out = append(out, m.ContentURL)
		}
		out = append(out, m.MediaURLs...)
	}
	return out, nil
}
