package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/http/response"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GET /api/progress
func (h *ProgressHandler) List(c *gin.Context) {
	rows, err := h.progressService.List(dbcFrom(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rows})
}

// PUT /api/progress/:material_id
func (h *ProgressHandler) Set(c *gin.Context) {
	materialID, err := pathID(c, "material_id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req struct {
		IsCompleted *bool `json:"is_completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	if req.IsCompleted == nil {
		response.RespondAPIError(c, fmt.Errorf("%w: is_completed is required", pkgerrors.ErrInvalidArgument))
		return
	}
	row, err := h.progressService.Set(dbcFrom(c), materialID, *req.IsCompleted)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}
