package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type ProgressService interface {
	Set(dbc dbctx.Context, materialID uuid.UUID, completed bool) (*types.Progress, error)
	List(dbc dbctx.Context) ([]*types.Progress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo repos.ProgressRepo
	materialRepo repos.MaterialRepo
}

func NewProgressService(db *gorm.DB, log *logger.Logger, progressRepo repos.ProgressRepo, materialRepo repos.MaterialRepo) ProgressService {
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		progressRepo: progressRepo,
		materialRepo: materialRepo,
	}
}

func (ps *progressService) Set(dbc dbctx.Context, materialID uuid.UUID, completed bool) (*types.Progress, error) {
	actor := ctxutil.ActorFrom(dbc.Ctx)
	if !actor.Authenticated() {
		return nil, pkgerrors.ErrUnauthorized
	}
	exists, err := ps.materialRepo.Exists(dbc, materialID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.ErrNotFound
	}
	row := &types.Progress{UserID: actor.UserID, MaterialID: materialID, IsCompleted: completed}
	if completed {
		now := time.Now()
		row.CompletedAt = &now
	}
	if err := ps.progressRepo.Upsert(dbc, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (ps *progressService) List(dbc dbctx.Context) ([]*types.Progress, error) {
	actor := ctxutil.ActorFrom(dbc.Ctx)
	if !actor.Authenticated() {
		return nil, pkgerrors.ErrUnauthorized
	}
	return ps.progressRepo.ListByUser(dbc, actor.UserID)
}
