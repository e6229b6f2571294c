package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/http/response"
	"github.com/yungbote/course-portal-backend/internal/services"
)

type WeekHandler struct {
	weekService services.WeekService
}

func NewWeekHandler(weekService services.WeekService) *WeekHandler {
	return &WeekHandler{weekService: weekService}
}

// GET /api/weeks
func (h *WeekHandler) List(c *gin.Context) {
	weeks, err := h.weekService.List(dbcFrom(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"weeks": weeks})
}

// GET /api/weeks/:id
func (h *WeekHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	week, err := h.weekService.Get(dbcFrom(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"week": week})
}

// PATCH /api/weeks/:id
func (h *WeekHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req services.WeekUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	week, err := h.weekService.Update(dbcFrom(c), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"week": week})
}

// POST /api/weeks/:id/current
func (h *WeekHandler) SetCurrent(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	week, err := h.weekService.SetCurrent(dbcFrom(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"week": week})
}
