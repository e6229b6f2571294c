package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/http/response"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/apierr"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
	"github.com/yungbote/course-portal-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.AbortAPIError(c, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token")))
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			if !errors.Is(err, pkgerrors.ErrUnauthorized) {
				am.log.Warn("token check failed", "error", err)
				response.AbortAPIError(c, response.FromError(err))
				return
			}
			response.AbortAPIError(c, apierr.New(http.StatusUnauthorized, "unauthorized", err))
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireApproved keeps pending and rejected accounts out. A missing status counts as approved.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ctxutil.ActorFrom(c.Request.Context())
		switch {
		case !actor.Authenticated():
			response.AbortAPIError(c, apierr.New(http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized))
		case actor.Status == ctxutil.StatusPending:
			response.AbortAPIError(c, apierr.New(http.StatusForbidden, "account_pending", errors.New("account is awaiting instructor approval")))
		case actor.Status == ctxutil.StatusRejected:
			response.AbortAPIError(c, apierr.New(http.StatusForbidden, "account_rejected", errors.New("account was rejected")))
		default:
			c.Next()
		}
	}
}

func RequireInstructor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.ActorFrom(c.Request.Context()).IsInstructor() {
			response.AbortAPIError(c, response.FromError(pkgerrors.ErrForbidden))
			return
		}
		c.Next()
	}
}

// extractToken accepts a bearer header, or ?token= for EventSource clients that cannot set headers.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
