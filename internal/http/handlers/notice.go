package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/http/response"
	"github.com/yungbote/course-portal-backend/internal/services"
)

type NoticeHandler struct {
	noticeService services.NoticeService
}

func NewNoticeHandler(noticeService services.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

func (h *NoticeHandler) List(c *gin.Context) {
	notices, err := h.noticeService.List(dbcFrom(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notices": notices})
}

func (h *NoticeHandler) Create(c *gin.Context) {
	var req services.NoticeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	n, err := h.noticeService.Create(dbcFrom(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"notice": n})
}

func (h *NoticeHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req services.NoticeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	if err := h.noticeService.Update(dbcFrom(c), id, req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *NoticeHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.noticeService.Delete(dbcFrom(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
