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

type DiscussionInput struct {
	Title   string `json:"title" validate:"required,max=300"`
	Content string `json:"content" validate:"required"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// CommentParent names what a comment hangs off.
type CommentParent struct {
	DiscussionID *uuid.UUID
	PortfolioID  *uuid.UUID
}

type DiscussionService interface {
	List(dbc dbctx.Context) ([]*types.Discussion, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Discussion, error)
	Create(dbc dbctx.Context, in DiscussionInput) (*types.Discussion, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error

	ListComments(dbc dbctx.Context, parent CommentParent) ([]*types.Comment, error)
	AddComment(dbc dbctx.Context, parent CommentParent, in CommentInput) (*types.Comment, error)
	DeleteComment(dbc dbctx.Context, id uuid.UUID) error
}

type discussionService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	discussionRepo repos.DiscussionRepo
	commentRepo    repos.CommentRepo
	portfolioRepo  repos.PortfolioRepo
}

func NewDiscussionService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	discussionRepo repos.DiscussionRepo,
	commentRepo repos.CommentRepo,
	portfolioRepo repos.PortfolioRepo,
) DiscussionService {
	return &discussionService{
		db:             db,
		log:            log.With("service", "DiscussionService"),
		userRepo:       userRepo,
		discussionRepo: discussionRepo,
		commentRepo:    commentRepo,
		portfolioRepo:  portfolioRepo,
	}
}

func (ds *discussionService) me(dbc dbctx.Context) (*types.User, error) {
	actor := ctxutil.ActorFrom(dbc.Ctx)
	if !actor.Authenticated() {
		return nil, pkgerrors.ErrUnauthorized
	}
	users, err := ds.userRepo.GetByIDs(dbc, []uuid.UUID{actor.UserID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, pkgerrors.ErrUnauthorized
	}
	return users[0], nil
}

func (ds *discussionService) List(dbc dbctx.Context) ([]*types.Discussion, error) {
	return ds.discussionRepo.List(dbc)
}

func (ds *discussionService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Discussion, error) {
	return ds.discussionRepo.GetByID(dbc, id)
}

func (ds *discussionService) Create(dbc dbctx.Context, in DiscussionInput) (*types.Discussion, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	u, err := ds.me(dbc)
	if err != nil {
		return nil, err
	}
	d := &types.Discussion{Title: in.Title, Content: in.Content, AuthorID: u.ID, AuthorEmail: u.Email}
	if err := ds.discussionRepo.Create(dbc, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (ds *discussionService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	rows, err := ds.discussionRepo.Delete(dbc, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := ds.discussionRepo.Exists(dbc, id)
		return denial("discussion", exists, err)
	}
	return nil
}

func (p CommentParent) validate() error {
	if (p.DiscussionID == nil) == (p.PortfolioID == nil) {
		return fmt.Errorf("%w: a comment needs exactly one parent", pkgerrors.ErrInvalidArgument)
	}
	return nil
}

func (ds *discussionService) ListComments(dbc dbctx.Context, parent CommentParent) ([]*types.Comment, error) {
	if err := parent.validate(); err != nil {
		return nil, err
	}
	if parent.DiscussionID != nil {
		return ds.commentRepo.ListByDiscussion(dbc, *parent.DiscussionID)
	}
	return ds.commentRepo.ListByPortfolio(dbc, *parent.PortfolioID)
}

func (ds *discussionService) AddComment(dbc dbctx.Context, parent CommentParent, in CommentInput) (*types.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := parent.validate(); err != nil {
		return nil, err
	}
	var (
		exists bool
		err    error
	)
	if parent.DiscussionID != nil {
		exists, err = ds.discussionRepo.Exists(dbc, *parent.DiscussionID)
	} else {
		exists, err = ds.portfolioRepo.Exists(dbc, *parent.PortfolioID)
	}
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("parent %w", pkgerrors.ErrNotFound)
	}
	u, err := ds.me(dbc)
	if err != nil {
		return nil, err
	}
	c := &types.Comment{
		Content:      in.Content,
		UserID:       u.ID,
		AuthorName:   u.DisplayName(),
		DiscussionID: parent.DiscussionID,
		PortfolioID:  parent.PortfolioID,
	}
	if err := ds.commentRepo.Create(dbc, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (ds *discussionService) DeleteComment(dbc dbctx.Context, id uuid.UUID) error {
	rows, err := ds.commentRepo.Delete(dbc, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := ds.commentRepo.Exists(dbc, id)
		return denial("comment", exists, err)
	}
	return nil
}
