package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bytebeat/bytebeat-api/internal/container"
	"github.com/bytebeat/bytebeat-api/internal/domain/repository"
	handlers "github.com/bytebeat/bytebeat-api/internal/interface/http"
	"github.com/bytebeat/bytebeat-api/internal/interface/middleware"
)

// BlogModule wires the blog aggregate routes.
// Public: GET /api/blogs, GET /api/blogs/search, GET /api/blogs/:id,
// GET /api/users/:id/blogs
// Protected: POST/PUT/DELETE blogs, likes, comments, image upload and the
// caller's own feed under /api/me/blogs.
type BlogModule struct {
	Handler *handlers.BlogHandler
	Users   repository.UserRepository
}

func NewBlogModule(h *handlers.BlogHandler, users repository.UserRepository) *BlogModule {
	return &BlogModule{Handler: h, Users: users}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/blogs", readLimiter, m.Handler.List)
	rg.GET("/blogs/search", searchLimiter, m.Handler.Search)
	rg.GET("/blogs/:id", readLimiter, m.Handler.Get)
	rg.GET("/users/:id/blogs", readLimiter, m.Handler.ListByUser)

	auth := rg.Group("/")
	auth.Use(middleware.Authenticate(m.Users, container.GetJWT(), container.GetRedis()))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/blogs", m.Handler.Create)
		auth.PUT("/blogs/:id", m.Handler.Update)
		auth.DELETE("/blogs/:id", m.Handler.Delete)
		auth.PUT("/blogs/:id/like", m.Handler.ToggleLike)
		auth.POST("/blogs/:id/comments", m.Handler.AddComment)
		auth.DELETE("/blogs/:id/comments/:commentId", m.Handler.RemoveComment)
		auth.POST("/blogs/upload", m.Handler.Upload)
		auth.GET("/me/blogs", m.Handler.ListMine)
	}
}
