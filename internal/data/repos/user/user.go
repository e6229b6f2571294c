package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos/policy"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error)
	GetByEmails(dbc dbctx.Context, emails []string) ([]*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	List(dbc dbctx.Context, status string) ([]*types.User, error)
	CountByStatus(dbc dbctx.Context, status string) (int64, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) (int64, error)
	UpdateProfile(dbc dbctx.Context, id uuid.UUID, firstName, lastName string) (int64, error)
	Promote(dbc dbctx.Context, id uuid.UUID) error
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	for _, u := range users {
		if u != nil {
			u.Email = normalizeEmail(u.Email)
		}
	}
	if err := dbc.DB(ur.db).Create(&users).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.ErrConflict
		}
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByEmails(dbc dbctx.Context, emails []string) ([]*types.User, error) {
	var results []*types.User
	if len(emails) == 0 {
		return results, nil
	}
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, normalizeEmail(e))
	}
	if err := dbc.DB(ur.db).Where("email IN ?", normalized).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.DB(ur.db).Model(&types.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns users newest first, optionally restricted to one approval status.
func (ur *userRepo) List(dbc dbctx.Context, status string) ([]*types.User, error) {
	var results []*types.User
	q := dbc.DB(ur.db).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) CountByStatus(dbc dbctx.Context, status string) (int64, error) {
	var count int64
	err := dbc.DB(ur.db).Model(&types.User{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// UpdateStatus is scoped to instructors; zero rows means denied or missing.
func (ur *userRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) (int64, error) {
	q := dbc.DB(ur.db).Model(&types.User{}).Where("id = ?", id)
	res := policy.Instructor(q, dbc).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	return res.RowsAffected, res.Error
}

// UpdateProfile only matches the caller's own row.
func (ur *userRepo) UpdateProfile(dbc dbctx.Context, id uuid.UUID, firstName, lastName string) (int64, error) {
	q := dbc.DB(ur.db).Model(&types.User{}).Where("id = ?", id)
	res := policy.Self(q, dbc, "id").Updates(map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"updated_at": time.Now(),
	})
	return res.RowsAffected, res.Error
}

// Promote makes a user an approved instructor. It is unscoped and only used by tooling.
func (ur *userRepo) Promote(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(ur.db).Model(&types.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"role":       types.RoleInstructor,
		"status":     types.StatusApproved,
		"updated_at": time.Now(),
	}).Error
}

func (ur *userRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := dbc.DB(ur.db).Model(&types.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
