package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/http/response"
	"github.com/yungbote/course-portal-backend/internal/services"
)

type PortfolioHandler struct {
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

func (h *PortfolioHandler) List(c *gin.Context) {
	items, err := h.portfolioService.List(dbcFrom(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"portfolios": items})
}

func (h *PortfolioHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	p, err := h.portfolioService.Get(dbcFrom(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"portfolio": p})
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	var req services.PortfolioInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	p, err := h.portfolioService.Create(dbcFrom(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"portfolio": p})
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req services.PortfolioInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	p, err := h.portfolioService.Update(dbcFrom(c), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"portfolio": p})
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.portfolioService.Delete(dbcFrom(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
