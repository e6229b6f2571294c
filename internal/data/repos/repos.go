package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos/auth"
	"github.com/yungbote/course-portal-backend/internal/data/repos/course"
	"github.com/yungbote/course-portal-backend/internal/data/repos/user"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type WeekRepo = course.WeekRepo
type MaterialRepo = course.MaterialRepo
type NoticeRepo = course.NoticeRepo
type DiscussionRepo = course.DiscussionRepo
type CommentRepo = course.CommentRepo
type PortfolioRepo = course.PortfolioRepo
type ProgressRepo = course.ProgressRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewWeekRepo(db *gorm.DB, baseLog *logger.Logger) WeekRepo {
	return course.NewWeekRepo(db, baseLog)
}
func NewMaterialRepo(db *gorm.DB, baseLog *logger.Logger) MaterialRepo {
	return course.NewMaterialRepo(db, baseLog)
}
func NewNoticeRepo(db *gorm.DB, baseLog *logger.Logger) NoticeRepo {
	return course.NewNoticeRepo(db, baseLog)
}
func NewDiscussionRepo(db *gorm.DB, baseLog *logger.Logger) DiscussionRepo {
	return course.NewDiscussionRepo(db, baseLog)
}
func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return course.NewCommentRepo(db, baseLog)
}
func NewPortfolioRepo(db *gorm.DB, baseLog *logger.Logger) PortfolioRepo {
	return course.NewPortfolioRepo(db, baseLog)
}
func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return course.NewProgressRepo(db, baseLog)
}
