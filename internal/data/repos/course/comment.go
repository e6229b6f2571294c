package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos/policy"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type CommentRepo interface {
	ListByDiscussion(dbc dbctx.Context, discussionID uuid.UUID) ([]*types.Comment, error)
	ListByPortfolio(dbc dbctx.Context, portfolioID uuid.UUID) ([]*types.Comment, error)
	Create(dbc dbctx.Context, c *types.Comment) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) ListByDiscussion(dbc dbctx.Context, discussionID uuid.UUID) ([]*types.Comment, error) {
	return r.listBy(dbc, "discussion_id", discussionID)
}

func (r *commentRepo) ListByPortfolio(dbc dbctx.Context, portfolioID uuid.UUID) ([]*types.Comment, error) {
	return r.listBy(dbc, "portfolio_id", portfolioID)
}

func (r *commentRepo) listBy(dbc dbctx.Context, column string, id uuid.UUID) ([]*types.Comment, error) {
	var results []*types.Comment
	if err := dbc.DB(r.db).Where(column+" = ?", id).Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *commentRepo) Create(dbc dbctx.Context, c *types.Comment) error {
	ok, err := policy.IsApproved(r.db, dbc)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.ErrForbidden
	}
	return dbc.DB(r.db).Create(c).Error
}

func (r *commentRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	res := policy.OwnerOrInstructor(dbc.DB(r.db).Where("id = ?", id), dbc, "user_id").Delete(&types.Comment{})
	return res.RowsAffected, res.Error
}

func (r *commentRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := dbc.DB(r.db).Model(&types.Comment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
