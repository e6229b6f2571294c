package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos/policy"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type NoticeRepo interface {
	List(dbc dbctx.Context) ([]*types.Notice, error)
	Create(dbc dbctx.Context, n *types.Notice) error
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type noticeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoticeRepo(db *gorm.DB, baseLog *logger.Logger) NoticeRepo {
	return &noticeRepo{db: db, log: baseLog.With("repo", "NoticeRepo")}
}

func (r *noticeRepo) List(dbc dbctx.Context) ([]*types.Notice, error) {
	var results []*types.Notice
	if err := dbc.DB(r.db).Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *noticeRepo) Create(dbc dbctx.Context, n *types.Notice) error {
	ok, err := policy.IsInstructor(r.db, dbc)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.ErrForbidden
	}
	return dbc.DB(r.db).Create(n).Error
}

func (r *noticeRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	fields["updated_at"] = time.Now()
	q := dbc.DB(r.db).Model(&types.Notice{}).Where("id = ?", id)
	res := policy.Instructor(q, dbc).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *noticeRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	res := policy.Instructor(dbc.DB(r.db).Where("id = ?", id), dbc).Delete(&types.Notice{})
	return res.RowsAffected, res.Error
}

func (r *noticeRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := dbc.DB(r.db).Model(&types.Notice{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
