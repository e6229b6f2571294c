package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/http"
	httpH "github.com/yungbote/course-portal-backend/internal/http/handlers"
	httpMW "github.com/yungbote/course-portal-backend/internal/http/middleware"
	"github.com/yungbote/course-portal-backend/internal/observability"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
	"github.com/yungbote/course-portal-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Realtime   *httpH.RealtimeHandler
	Material   *httpH.MaterialHandler
	Week       *httpH.WeekHandler
	Notice     *httpH.NoticeHandler
	Discussion *httpH.DiscussionHandler
	Portfolio  *httpH.PortfolioHandler
	Progress   *httpH.ProgressHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Auth:       httpH.NewAuthHandler(services.Auth),
		User:       httpH.NewUserHandler(services.User),
		Realtime:   httpH.NewRealtimeHandler(log, hub),
		Material:   httpH.NewMaterialHandler(log, services.Catalog),
		Week:       httpH.NewWeekHandler(services.Week),
		Notice:     httpH.NewNoticeHandler(services.Notice),
		Discussion: httpH.NewDiscussionHandler(services.Discussion),
		Portfolio:  httpH.NewPortfolioHandler(services.Portfolio),
		Progress:   httpH.NewProgressHandler(services.Progress),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		CORSOrigins:       cfg.CORSOrigins,
		ServiceName:       cfg.ServiceName,
		AuthMiddleware:    middleware.Auth,
		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		MaterialHandler:   handlers.Material,
		WeekHandler:       handlers.Week,
		NoticeHandler:     handlers.Notice,
		DiscussionHandler: handlers.Discussion,
		PortfolioHandler:  handlers.Portfolio,
		ProgressHandler:   handlers.Progress,
		RealtimeHandler:   handlers.Realtime,
		HealthHandler:     handlers.Health,
	})
}
