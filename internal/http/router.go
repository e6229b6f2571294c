package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/course-portal-backend/internal/http/handlers"
	httpMW "github.com/yungbote/course-portal-backend/internal/http/middleware"
	"github.com/yungbote/course-portal-backend/internal/observability"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	ServiceName string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	MaterialHandler   *httpH.MaterialHandler
	WeekHandler       *httpH.WeekHandler
	NoticeHandler     *httpH.NoticeHandler
	DiscussionHandler *httpH.DiscussionHandler
	PortfolioHandler  *httpH.PortfolioHandler
	ProgressHandler   *httpH.ProgressHandler
	RealtimeHandler   *httpH.RealtimeHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	// Signed in, any account status.
	session := api.Group("/")
	if cfg.AuthMiddleware != nil {
		session.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			session.POST("/refresh", cfg.AuthHandler.Refresh)
			session.POST("/logout", cfg.AuthHandler.Logout)
		}
		if cfg.UserHandler != nil {
			session.GET("/me", cfg.UserHandler.GetMe)
			session.PATCH("/me", cfg.UserHandler.UpdateMe)
		}
	}

	protected := session.Group("/")
	protected.Use(httpMW.RequireApproved())
	instructor := protected.Group("/")
	instructor.Use(httpMW.RequireInstructor())

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		protected.GET("/events", cfg.RealtimeHandler.Stream)
	}

	// Materials
	if h := cfg.MaterialHandler; h != nil {
		protected.GET("/materials", h.List)
		instructor.POST("/materials", h.Create)
		instructor.POST("/materials/media", h.UploadMedia)
		instructor.PUT("/materials/:id", h.Update)
		instructor.PATCH("/materials/:id/visibility", h.SetVisibility)
		instructor.DELETE("/materials/:id", h.Delete)
		instructor.POST("/materials/:id/reorder", h.Reorder)
	}

	// Weeks
	if h := cfg.WeekHandler; h != nil {
		protected.GET("/weeks", h.List)
		protected.GET("/weeks/:id", h.Get)
		instructor.PATCH("/weeks/:id", h.Update)
		instructor.POST("/weeks/:id/current", h.SetCurrent)
	}

	// Notices
	if h := cfg.NoticeHandler; h != nil {
		protected.GET("/notices", h.List)
		instructor.POST("/notices", h.Create)
		instructor.PUT("/notices/:id", h.Update)
		instructor.DELETE("/notices/:id", h.Delete)
	}

	// Discussions and comments
	if h := cfg.DiscussionHandler; h != nil {
		protected.GET("/discussions", h.List)
		protected.POST("/discussions", h.Create)
		protected.GET("/discussions/:id", h.Get)
		protected.DELETE("/discussions/:id", h.Delete)
		protected.GET("/discussions/:id/comments", h.ListComments)
		protected.POST("/discussions/:id/comments", h.AddComment)
		protected.GET("/portfolios/:id/comments", h.ListPortfolioComments)
		protected.POST("/portfolios/:id/comments", h.AddPortfolioComment)
		protected.DELETE("/comments/:id", h.DeleteComment)
	}

	// Portfolios
	if h := cfg.PortfolioHandler; h != nil {
		protected.GET("/portfolios", h.List)
		protected.POST("/portfolios", h.Create)
		protected.GET("/portfolios/:id", h.Get)
		protected.PUT("/portfolios/:id", h.Update)
		protected.DELETE("/portfolios/:id", h.Delete)
	}

	// Progress
	if h := cfg.ProgressHandler; h != nil {
		protected.GET("/progress", h.List)
		protected.PUT("/progress/:material_id", h.Set)
	}

	// Admin
	if h := cfg.UserHandler; h != nil {
		instructor.GET("/admin/users", h.ListUsers)
		instructor.GET("/admin/users/pending-count", h.PendingCount)
		instructor.PATCH("/admin/users/:id/status", h.SetStatus)
	}

	return r
}
