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

// ProfileInput is the caller's display name.
type ProfileInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateProfile(dbc dbctx.Context, in ProfileInput) (*types.User, error)
	ListUsers(dbc dbctx.Context, status string) ([]*types.User, error)
	PendingCount(dbc dbctx.Context) (int64, error)
	SetStatus(dbc dbctx.Context, id uuid.UUID, status string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{db: db, log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	actor := ctxutil.ActorFrom(dbc.Ctx)
	if !actor.Authenticated() {
		return nil, pkgerrors.ErrUnauthorized
	}
	users, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{actor.UserID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %w", pkgerrors.ErrNotFound)
	}
	return users[0], nil
}

// UpdateProfile renames the caller. It works for any account status.
func (us *userService) UpdateProfile(dbc dbctx.Context, in ProfileInput) (*types.User, error) {
	actor := ctxutil.ActorFrom(dbc.Ctx)
	if !actor.Authenticated() {
		return nil, pkgerrors.ErrUnauthorized
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	rows, err := us.userRepo.UpdateProfile(dbc, actor.UserID, in.FirstName, in.LastName)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("user %w", pkgerrors.ErrNotFound)
	}
	us.log.Info("profile updated", "user_id", actor.UserID)
	return us.GetMe(dbc)
}

// ListUsers returns every account, newest first. An empty status lists all of them.
func (us *userService) ListUsers(dbc dbctx.Context, status string) ([]*types.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !types.ValidStatus(status) {
		return nil, fmt.Errorf("%w: status must be pending, approved or rejected", pkgerrors.ErrInvalidArgument)
	}
	return us.userRepo.List(dbc, status)
}

func (us *userService) PendingCount(dbc dbctx.Context) (int64, error) {
	return us.userRepo.CountByStatus(dbc, types.StatusPending)
}

// SetStatus approves or rejects an account. Only instructors match the scoped update.
func (us *userService) SetStatus(dbc dbctx.Context, id uuid.UUID, status string) (*types.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != types.StatusApproved && status != types.StatusRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", pkgerrors.ErrInvalidArgument)
	}
	rows, err := us.userRepo.UpdateStatus(dbc, id, status)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		exists, err := us.userRepo.Exists(dbc, id)
		return nil, denial("user", exists, err)
	}
	us.log.Info("user status changed", "user_id", id, "status", status)
	users, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %w", pkgerrors.ErrNotFound)
	}
	return users[0], nil
}
