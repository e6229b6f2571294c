package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

// WeekView is a week with its derived progress label.
type WeekView struct {
	*types.Week
	Status types.WeekStatus `json:"status"`
}

type WeekDetail struct {
	WeekView
	Materials []*types.Material `json:"materials"`
}

type WeekUpdateInput struct {
	Title       *string `json:"title" validate:"omitempty,max=300"`
	Description *string `json:"description"`
}

type WeekService interface {
	List(dbc dbctx.Context) ([]WeekView, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*WeekDetail, error)
	Update(dbc dbctx.Context, id uuid.UUID, in WeekUpdateInput) (*types.Week, error)
	SetCurrent(dbc dbctx.Context, id uuid.UUID) (*types.Week, error)
}

type weekService struct {
	db           *gorm.DB
	log          *logger.Logger
	weekRepo     repos.WeekRepo
	materialRepo repos.MaterialRepo
}

func NewWeekService(db *gorm.DB, log *logger.Logger, weekRepo repos.WeekRepo, materialRepo repos.MaterialRepo) WeekService {
	return &weekService{
		db:           db,
		log:          log.With("service", "WeekService"),
		weekRepo:     weekRepo,
		materialRepo: materialRepo,
	}
}

func (ws *weekService) currentNumber(dbc dbctx.Context) (int, error) {
	cur, err := ws.weekRepo.Current(dbc)
	if err != nil {
		return -1, err
	}
	if cur == nil {
		return -1, nil
	}
	return cur.WeekNumber, nil
}

func (ws *weekService) List(dbc dbctx.Context) ([]WeekView, error) {
	weeks, err := ws.weekRepo.List(dbc)
	if err != nil {
		return nil, err
	}
	current := -1
	for _, w := range weeks {
		if w.IsCurrent {
			current = w.WeekNumber
			break
		}
	}
	out := make([]WeekView, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, WeekView{Week: w, Status: w.StatusRelativeTo(current)})
	}
	return out, nil
}

// Get returns the week and its materials, oldest first. Hidden materials are for instructors only.
func (ws *weekService) Get(dbc dbctx.Context, id uuid.UUID) (*WeekDetail, error) {
	w, err := ws.weekRepo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	current, err := ws.currentNumber(dbc)
	if err != nil {
		return nil, err
	}
	materials, err := ws.materialRepo.ListByWeek(dbc, id, ctxutil.ActorFrom(dbc.Ctx).IsInstructor())
	if err != nil {
		return nil, err
	}
	if materials == nil {
		materials = []*types.Material{}
	}
	return &WeekDetail{
		WeekView:  WeekView{Week: w, Status: w.StatusRelativeTo(current)},
		Materials: materials,
	}, nil
}

func (ws *weekService) Update(dbc dbctx.Context, id uuid.UUID, in WeekUpdateInput) (*types.Week, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", pkgerrors.ErrInvalidArgument)
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", pkgerrors.ErrInvalidArgument)
	}
	rows, err := ws.weekRepo.Update(dbc, id, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		exists, err := ws.weekRepo.Exists(dbc, id)
		return nil, denial("week", exists, err)
	}
	return ws.weekRepo.GetByID(dbc, id)
}

func (ws *weekService) SetCurrent(dbc dbctx.Context, id uuid.UUID) (*types.Week, error) {
	rows, err := ws.weekRepo.SetCurrent(dbc, id)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		exists, err := ws.weekRepo.Exists(dbc, id)
		return nil, denial("week", exists, err)
	}
	ws.log.Info("current week changed", "week_id", id)
	return ws.weekRepo.GetByID(dbc, id)
}
