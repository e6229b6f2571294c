package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/modules/catalog"
	"github.com/yungbote/course-portal-backend/internal/observability"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
	"github.com/yungbote/course-portal-backend/internal/realtime"
	"github.com/yungbote/course-portal-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Week       services.WeekService
	Notice     services.NoticeService
	Discussion services.DiscussionService
	Portfolio  services.PortfolioService
	Progress   services.ProgressService
	Catalog    *catalog.Catalog
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	reposet Repos,
	clients Clients,
	emitter *realtime.Emitter,
	metrics *observability.Metrics,
) Services {
	log.Info("Wiring services...")

	var objects catalog.ObjectStore
	if clients.Bucket != nil {
		objects = clients.Bucket
	}

	return Services{
		Auth: services.NewAuthService(
			db, log, reposet.User, reposet.UserToken,
			cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		),
		User:       services.NewUserService(db, log, reposet.User),
		Week:       services.NewWeekService(db, log, reposet.Week, reposet.Material),
		Notice:     services.NewNoticeService(db, log, reposet.Notice, emitter),
		Discussion: services.NewDiscussionService(db, log, reposet.User, reposet.Discussion, reposet.Comment, reposet.Portfolio),
		Portfolio:  services.NewPortfolioService(db, log, reposet.Portfolio),
		Progress:   services.NewProgressService(db, log, reposet.Progress, reposet.Material),
		Catalog: catalog.New(catalog.Deps{
			Log:       log,
			Store:     reposet.Material,
			Objects:   objects,
			Publisher: emitter,
			Metrics:   metrics,
		}),
	}
}
