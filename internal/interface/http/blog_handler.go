package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bytebeat/bytebeat-api/internal/application"
	"github.com/bytebeat/bytebeat-api/internal/interface/middleware"
	"github.com/bytebeat/bytebeat-api/pkg/response"
	"github.com/bytebeat/bytebeat-api/pkg/validation"
)

// BlogHandler serves the blog aggregate: CRUD, likes, comments, the
// paginated list and the search mirror.
type BlogHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewBlogHandler(svc *application.BlogService, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{Svc: svc, Logger: logger}
}

func serviceCaller(c *gin.Context) application.Caller {
	mc, _ := middleware.CallerFrom(c)
	return application.Caller{ID: mc.ID, Name: mc.Name, Role: mc.Role, Avatar: mc.Avatar}
}

type createBlogRequest struct {
	Title    string   `json:"title" binding:"required,max=100"`
	Content  string   `json:"content" binding:"required"`
	Summary  string   `json:"summary" binding:"max=200"`
	Image    string   `json:"image"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
}

type updateBlogRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Summary  *string   `json:"summary"`
	Image    *string   `json:"image"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// List is the public feed: filterable, paginated, newest first.
func (h *BlogHandler) List(c *gin.Context) {
	q := application.ParseListQuery(c.Request.URL.Query())
	res, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "blogs", gin.H{
		"count":      res.Count,
		"pagination": res.Pagination,
	})
}

// Search queries the Elasticsearch mirror for relevance-ranked results.
func (h *BlogHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

func (h *BlogHandler) Get(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "blog", nil)
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	caller := serviceCaller(c)
	b, err := h.Svc.Create(c.Request.Context(), caller.ID, application.CreateBlogInput{
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		Image:    req.Image,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, b, "blog created", nil)
}

func (h *BlogHandler) Update(c *gin.Context) {
	var req updateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), c.Param("id"), serviceCaller(c), application.UpdateBlogInput{
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		Image:    req.Image,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "blog updated", nil)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), serviceCaller(c)); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{}, "blog deleted", nil)
}

func (h *BlogHandler) ToggleLike(c *gin.Context) {
	likes, err := h.Svc.ToggleLike(c.Request.Context(), c.Param("id"), serviceCaller(c).ID)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, likes, "likes", gin.H{"count": len(likes)})
}

func (h *BlogHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	comments, err := h.Svc.AddComment(c.Request.Context(), c.Param("id"), serviceCaller(c), req.Text)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, comments, "comment added", gin.H{"count": len(comments)})
}

func (h *BlogHandler) RemoveComment(c *gin.Context) {
	comments, err := h.Svc.RemoveComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), serviceCaller(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, comments, "comment removed", gin.H{"count": len(comments)})
}

// ListByUser is the public author feed.
func (h *BlogHandler) ListByUser(c *gin.Context) {
	blogs, err := h.Svc.ListByAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, blogs, "blogs", gin.H{"count": len(blogs)})
}

// ListMine returns the caller's own blogs.
func (h *BlogHandler) ListMine(c *gin.Context) {
	blogs, err := h.Svc.ListByAuthor(c.Request.Context(), serviceCaller(c).ID)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, blogs, "blogs", gin.H{"count": len(blogs)})
}

// Upload stores a blog image and returns its public URL.
func (h *BlogHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadImage(c.Request.Context(), serviceCaller(c).ID, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "image uploaded", nil)
}
