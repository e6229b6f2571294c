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

type PortfolioRepo interface {
	List(dbc dbctx.Context) ([]*types.Portfolio, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Portfolio, error)
	Create(dbc dbctx.Context, p *types.Portfolio) error
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type portfolioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortfolioRepo(db *gorm.DB, baseLog *logger.Logger) PortfolioRepo {
	return &portfolioRepo{db: db, log: baseLog.With("repo", "PortfolioRepo")}
}

func (r *portfolioRepo) List(dbc dbctx.Context) ([]*types.Portfolio, error) {
	var results []*types.Portfolio
	if err := dbc.DB(r.db).Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *portfolioRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Portfolio, error) {
	var p types.Portfolio
	if err := dbc.DB(r.db).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *portfolioRepo) Create(dbc dbctx.Context, p *types.Portfolio) error {
	ok, err := policy.IsApproved(r.db, dbc)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.ErrForbidden
	}
	return dbc.DB(r.db).Create(p).Error
}

func (r *portfolioRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	fields["updated_at"] = time.Now()
	q := dbc.DB(r.db).Model(&types.Portfolio{}).Where("id = ?", id)
	res := policy.OwnerOrInstructor(q, dbc, "user_id").Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *portfolioRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		res := policy.OwnerOrInstructor(tx.Where("id = ?", id), dbc, "user_id").Delete(&types.Portfolio{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Where("portfolio_id = ?", id).Delete(&types.Comment{}).Error
	})
	return affected, err
}

func (r *portfolioRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := dbc.DB(r.db).Model(&types.Portfolio{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
