package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/http/response"
	"github.com/yungbote/course-portal-backend/internal/modules/catalog"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

const maxUploadBytes = 100 << 20

type MaterialHandler struct {
	log     *logger.Logger
	catalog *catalog.Catalog
}

func NewMaterialHandler(log *logger.Logger, cat *catalog.Catalog) *MaterialHandler {
	return &MaterialHandler{log: log.With("handler", "MaterialHandler"), catalog: cat}
}

// GET /api/materials?q=&type=
func (h *MaterialHandler) List(c *gin.Context) {
	var q catalog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	view, err := h.catalog.View(c.Request.Context(), q)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// bindMaterial reads a material from JSON or from a multipart form with an optional "file" part.
// The returned func closes the upload.
func bindMaterial(c *gin.Context) (catalog.Input, *catalog.File, func(), error) {
	var in catalog.Input
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&in); err != nil {
			return in, nil, noop, badRequest(err)
		}
		return in, nil, noop, nil
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	if err := c.ShouldBind(&in); err != nil {
		return in, nil, noop, badRequest(err)
	}
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, noop, nil
	}
	if err != nil {
		return in, nil, noop, badRequest(err)
	}
	file, done, err := openUpload(fh)
	return in, file, done, err
}

func openUpload(fh *multipart.FileHeader) (*catalog.File, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, badRequest(err)
	}
	file := &catalog.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Reader: f}
	return file, func() { _ = f.Close() }, nil
}

// POST /api/materials
func (h *MaterialHandler) Create(c *gin.Context) {
	in, file, done, err := bindMaterial(c)
	defer done()
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	m, err := h.catalog.Create(c.Request.Context(), in, file)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"material": m})
}

// PUT /api/materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	in, file, done, err := bindMaterial(c)
	defer done()
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	m, err := h.catalog.Update(c.Request.Context(), id, in, file)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"material": m})
}

// PATCH /api/materials/:id/visibility
func (h *MaterialHandler) SetVisibility(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req struct {
		IsVisible *bool `json:"is_visible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	if req.IsVisible == nil {
		response.RespondAPIError(c, fmt.Errorf("%w: is_visible is required", pkgerrors.ErrInvalidArgument))
		return
	}
	if err := h.catalog.SetVisibility(c.Request.Context(), id, *req.IsVisible); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /api/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.catalog.Remove(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/materials/:id/reorder
// A failed batch still returns the reloaded list next to the error.
func (h *MaterialHandler) Reorder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req struct {
		Direction string `json:"direction"`
		Q         string `json:"q"`
		Type      string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest(err))
		return
	}
	dir, err := catalog.ParseDirection(req.Direction)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	items, err := h.catalog.ReorderCurrent(c.Request.Context(), catalog.Query{Text: req.Q, Type: req.Type}, id, dir)
	if err != nil {
		ae := response.FromError(err)
		if items == nil {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		c.JSON(ae.Status, gin.H{
			"error":     response.APIError{Message: ae.Err.Error(), Code: ae.Code},
			"materials": items,
		})
		return
	}
	response.RespondOK(c, gin.H{"materials": items})
}

// POST /api/materials/media stores an image, video or html file used inside a description.
func (h *MaterialHandler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondAPIError(c, fmt.Errorf("%w: file is required", pkgerrors.ErrInvalidArgument))
		return
	}
	ct := strings.ToLower(fh.Header.Get("Content-Type"))
	if !inlineMedia(ct) {
		response.RespondAPIError(c, fmt.Errorf("%w: only image, video or html files can be embedded", pkgerrors.ErrInvalidArgument))
		return
	}
	file, done, err := openUpload(fh)
	defer done()
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	url, err := h.catalog.UploadFile(c.Request.Context(), file)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": url})
}

func inlineMedia(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") ||
		strings.HasPrefix(contentType, "video/") ||
		strings.HasPrefix(contentType, "text/html")
}
