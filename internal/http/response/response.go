package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/modules/catalog"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// FromError picks the status and code err should be reported with.
// Catalog errors are checked before the generic sentinels they may wrap.
func FromError(err error) *apierr.Error {
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	switch {
	case errors.Is(err, catalog.ErrFiltersActive):
		return apierr.New(http.StatusConflict, "clear_filters_first", err)
	case errors.Is(err, catalog.ErrUpload):
		return apierr.New(http.StatusBadGateway, "upload_failed", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return apierr.New(http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return apierr.New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, pkgerrors.ErrForbidden):
		return apierr.New(http.StatusForbidden, "no_permission", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrConflict):
		return apierr.New(http.StatusConflict, "conflict", err)
	default:
		return apierr.New(http.StatusServiceUnavailable, "store_unavailable", err)
	}
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

const unavailableMessage = "service temporarily unavailable"

// RespondAPIError maps err to its envelope. A server-side cause that is not one
// of the service's own sentinels is attached to c for the request log and
// replaced with a generic message.
func RespondAPIError(c *gin.Context, err error) {
	ae := FromError(err)
	if ae.Status < http.StatusInternalServerError || ae.Err == nil {
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	_ = c.Error(ae.Err)
	if errors.Is(ae.Err, pkgerrors.ErrUnavailable) || errors.Is(ae.Err, catalog.ErrUpload) {
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	RespondError(c, ae.Status, ae.Code, errors.New(unavailableMessage))
}

// AbortAPIError responds and stops the handler chain.
func AbortAPIError(c *gin.Context, ae *apierr.Error) {
	RespondError(c, ae.Status, ae.Code, ae.Err)
	c.Abort()
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
