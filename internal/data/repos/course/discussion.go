package course

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos/policy"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type DiscussionRepo interface {
	List(dbc dbctx.Context) ([]*types.Discussion, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Discussion, error)
	Create(dbc dbctx.Context, d *types.Discussion) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type discussionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiscussionRepo(db *gorm.DB, baseLog *logger.Logger) DiscussionRepo {
	return &discussionRepo{db: db, log: baseLog.With("repo", "DiscussionRepo")}
}

func (r *discussionRepo) List(dbc dbctx.Context) ([]*types.Discussion, error) {
	var results []*types.Discussion
	if err := dbc.DB(r.db).Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *discussionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Discussion, error) {
	var d types.Discussion
	if err := dbc.DB(r.db).Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *discussionRepo) Create(dbc dbctx.Context, d *types.Discussion) error {
	ok, err := policy.IsApproved(r.db, dbc)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.ErrForbidden
	}
	return dbc.DB(r.db).Create(d).Error
}

// Delete is allowed for the author or an instructor. Comments go with the thread.
func (r *discussionRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		res := policy.OwnerOrInstructor(tx.Where("id = ?", id), dbc, "author_id").Delete(&types.Discussion{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Where("discussion_id = ?", id).Delete(&types.Comment{}).Error
	})
	return affected, err
}

func (r *discussionRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := dbc.DB(r.db).Model(&types.Discussion{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
