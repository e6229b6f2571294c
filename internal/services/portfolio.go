package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type PortfolioInput struct {
	Title       string `json:"title" validate:"required,max=300"`
	Description string `json:"description"`
	ProjectURL  string `json:"project_url" validate:"omitempty,url,max=2048"`
}

type PortfolioService interface {
	List(dbc dbctx.Context) ([]*types.Portfolio, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Portfolio, error)
	Create(dbc dbctx.Context, in PortfolioInput) (*types.Portfolio, error)
	Update(dbc dbctx.Context, id uuid.UUID, in PortfolioInput) (*types.Portfolio, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type portfolioService struct {
	db            *gorm.DB
	log           *logger.Logger
	portfolioRepo repos.PortfolioRepo
}

func NewPortfolioService(db *gorm.DB, log *logger.Logger, portfolioRepo repos.PortfolioRepo) PortfolioService {
	return &portfolioService{db: db, log: log.With("service", "PortfolioService"), portfolioRepo: portfolioRepo}
}

func (in PortfolioInput) trimmed() PortfolioInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ProjectURL = strings.TrimSpace(in.ProjectURL)
	return in
}

func (ps *portfolioService) List(dbc dbctx.Context) ([]*types.Portfolio, error) {
	return ps.portfolioRepo.List(dbc)
}

func (ps *portfolioService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Portfolio, error) {
	return ps.portfolioRepo.GetByID(dbc, id)
}

func (ps *portfolioService) Create(dbc dbctx.Context, in PortfolioInput) (*types.Portfolio, error) {
	in = in.trimmed()
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	p := &types.Portfolio{
		Title:       in.Title,
		Description: in.Description,
		ProjectURL:  in.ProjectURL,
		UserID:      ctxutil.ActorFrom(dbc.Ctx).UserID,
	}
	if err := ps.portfolioRepo.Create(dbc, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (ps *portfolioService) Update(dbc dbctx.Context, id uuid.UUID, in PortfolioInput) (*types.Portfolio, error) {
	in = in.trimmed()
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	rows, err := ps.portfolioRepo.Update(dbc, id, map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"project_url": in.ProjectURL,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		exists, err := ps.portfolioRepo.Exists(dbc, id)
		return nil, denial("portfolio", exists, err)
	}
	return ps.portfolioRepo.GetByID(dbc, id)
}

func (ps *portfolioService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	rows, err := ps.portfolioRepo.Delete(dbc, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := ps.portfolioRepo.Exists(dbc, id)
		return denial("portfolio", exists, err)
	}
	return nil
}
