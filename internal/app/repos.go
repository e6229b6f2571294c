package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type Repos struct {
	User       repos.UserRepo
	UserToken  repos.UserTokenRepo
	Week       repos.WeekRepo
	Material   repos.MaterialRepo
	Notice     repos.NoticeRepo
	Discussion repos.DiscussionRepo
	Comment    repos.CommentRepo
	Portfolio  repos.PortfolioRepo
	Progress   repos.ProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		UserToken:  repos.NewUserTokenRepo(db, log),
		Week:       repos.NewWeekRepo(db, log),
		Material:   repos.NewMaterialRepo(db, log),
		Notice:     repos.NewNoticeRepo(db, log),
		Discussion: repos.NewDiscussionRepo(db, log),
		Comment:    repos.NewCommentRepo(db, log),
		Portfolio:  repos.NewPortfolioRepo(db, log),
		Progress:   repos.NewProgressRepo(db, log),
	}
}
