package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type NoticeInput struct {
	Title   string `json:"title" validate:"required,max=300"`
	Content string `json:"content" validate:"required"`
}

func (in NoticeInput) trimmed() NoticeInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	return in
}

// NoticeNotifier hears about new notices.
type NoticeNotifier interface {
	NoticeCreated(ctx context.Context, n *types.Notice)
}

type NoticeService interface {
	List(dbc dbctx.Context) ([]*types.Notice, error)
	Create(dbc dbctx.Context, in NoticeInput) (*types.Notice, error)
	Update(dbc dbctx.Context, id uuid.UUID, in NoticeInput) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type noticeService struct {
	db         *gorm.DB
	log        *logger.Logger
	noticeRepo repos.NoticeRepo
	notifier   NoticeNotifier
}

func NewNoticeService(db *gorm.DB, log *logger.Logger, noticeRepo repos.NoticeRepo, notifier NoticeNotifier) NoticeService {
	return &noticeService{
		db:         db,
		log:        log.With("service", "NoticeService"),
		noticeRepo: noticeRepo,
		notifier:   notifier,
	}
}

func (ns *noticeService) List(dbc dbctx.Context) ([]*types.Notice, error) {
	return ns.noticeRepo.List(dbc)
}

func (ns *noticeService) Create(dbc dbctx.Context, in NoticeInput) (*types.Notice, error) {
	in = in.trimmed()
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	n := &types.Notice{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: ctxutil.ActorFrom(dbc.Ctx).UserID,
	}
	if err := ns.noticeRepo.Create(dbc, n); err != nil {
		return nil, err
	}
	if ns.notifier != nil {
		ns.notifier.NoticeCreated(dbc.Ctx, n)
	}
	return n, nil
}

func (ns *noticeService) Update(dbc dbctx.Context, id uuid.UUID, in NoticeInput) error {
	in = in.trimmed()
	if err := validateStruct(in); err != nil {
		return err
	}
	rows, err := ns.noticeRepo.Update(dbc, id, map[string]interface{}{"title": in.Title, "content": in.Content})
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := ns.noticeRepo.Exists(dbc, id)
		return denial("notice", exists, err)
	}
	return nil
}

func (ns *noticeService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	rows, err := ns.noticeRepo.Delete(dbc, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := ns.noticeRepo.Exists(dbc, id)
		return denial("notice", exists, err)
	}
	return nil
}
