package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bytebeat/bytebeat-api/internal/container"
	"github.com/bytebeat/bytebeat-api/internal/domain/entity"
	"github.com/bytebeat/bytebeat-api/internal/domain/repository"
	handlers "github.com/bytebeat/bytebeat-api/internal/interface/http"
	"github.com/bytebeat/bytebeat-api/internal/interface/middleware"
)

// UserModule wires the caller's profile routes plus the admin-only user
// removal endpoint.
// Protected: GET /api/me, PUT /api/me, PUT /api/me/avatar
// Admin: DELETE /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Users   repository.UserRepository
}

func NewUserModule(h *handlers.UserHandler, users repository.UserRepository) *UserModule {
	return &UserModule{Handler: h, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Authenticate(m.Users, container.GetJWT(), container.GetRedis()))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/me", m.Handler.GetProfile)
		auth.PUT("/me", m.Handler.UpdateProfile)
		auth.PUT("/me/avatar", m.Handler.UploadAvatar)

		admin := auth.Group("/")
		admin.Use(middleware.RequireRoles(entity.RoleAdmin))
		admin.DELETE("/users/:id", m.Handler.Delete)
	}
}
