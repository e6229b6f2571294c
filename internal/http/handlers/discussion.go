package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/http/response"
	"github.com/yungbote/course-portal-backend/internal/services"
)

// DiscussionHandler serves discussion threads and every comment route,
// including comments on portfolios.
type DiscussionHandler struct {
	discussionService services.DiscussionService
}

func NewDiscussionHandler(discussionService services.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{discussionService: discussionService}
}

func (h *DiscussionHandler) List(c *gin.Context) {
	items, err := h.discussionService.List(dbcFrom(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"discussions": items})
}

func (h *DiscussionHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	d, err := h.discussionService.Get(dbcFrom(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"discussion": d})
}

func (h *DiscussionHandler) Create(c *gin.Context) {
	var req services.DiscussionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	d, err := h.discussionService.Create(dbcFrom(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"discussion": d})
}

func (h *DiscussionHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.discussionService.Delete(dbcFrom(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// parent reads :id as a discussion or a portfolio depending on the route.
func parent(c *gin.Context, portfolio bool) (services.CommentParent, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return services.CommentParent{}, err
	}
	if portfolio {
		return services.CommentParent{PortfolioID: &id}, nil
	}
	return services.CommentParent{DiscussionID: &id}, nil
}

func (h *DiscussionHandler) listComments(portfolio bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := parent(c, portfolio)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		comments, err := h.discussionService.ListComments(dbcFrom(c), p)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"comments": comments})
	}
}

func (h *DiscussionHandler) addComment(portfolio bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := parent(c, portfolio)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		var req services.CommentInput
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondAPIError(c, badRequest(err))
			return
		}
		comment, err := h.discussionService.AddComment(dbcFrom(c), p, req)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		response.RespondCreated(c, gin.H{"comment": comment})
	}
}

// GET /api/discussions/:id/comments
func (h *DiscussionHandler) ListComments(c *gin.Context) { h.listComments(false)(c) }

// POST /api/discussions/:id/comments
func (h *DiscussionHandler) AddComment(c *gin.Context) { h.addComment(false)(c) }

// GET /api/portfolios/:id/comments
func (h *DiscussionHandler) ListPortfolioComments(c *gin.Context) { h.listComments(true)(c) }

// POST /api/portfolios/:id/comments
func (h *DiscussionHandler) AddPortfolioComment(c *gin.Context) { h.addComment(true)(c) }

// DELETE /api/comments/:id
func (h *DiscussionHandler) DeleteComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.discussionService.DeleteComment(dbcFrom(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
