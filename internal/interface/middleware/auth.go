package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/bytebeat/bytebeat-api/internal/domain/entity"
	"github.com/bytebeat/bytebeat-api/internal/domain/repository"
	"github.com/bytebeat/bytebeat-api/pkg/helpers"
	"github.com/bytebeat/bytebeat-api/pkg/response"
)

const (
	CtxCallerKey = "caller"
	CtxUserIDKey = "userID"
)

// Caller is the authenticated identity attached to the request context by
// Authenticate and consumed by handlers and RequireRoles.
type Caller struct {
	ID     string
	Name   string
	Email  string
	Role   entity.Role
	Avatar string
}

// CallerFrom extracts the caller identity set by Authenticate.
func CallerFrom(c *gin.Context) (Caller, bool) {
	v, ok := c.Get(CtxCallerKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := v.(Caller)
	return caller, ok
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authenticate resolves the bearer token from the Authorization header to a
// caller identity. The subject is looked up in the Redis session cache
// first and falls back to the identity directory; a token whose subject no
// longer exists is rejected.
func Authenticate(users repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		if rdb != nil {
			key := "user:session:" + claims.UserID
			if data, rErr := rdb.HGetAll(c.Request.Context(), key).Result(); rErr == nil && len(data) > 0 {
				setCaller(c, Caller{
					ID:     data["user_id"],
					Name:   data["name"],
					Email:  data["email"],
					Role:   entity.Role(data["role"]),
					Avatar: data["avatar_url"],
				})
				c.Next()
				return
			}
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			response.Error[any](c, http.StatusUnauthorized, "user not found", nil)
			c.Abort()
			return
		}
		setCaller(c, Caller{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Avatar: u.AvatarURL})
		c.Next()
	}
}

func setCaller(c *gin.Context, caller Caller) {
	c.Set(CtxCallerKey, caller)
	c.Set(CtxUserIDKey, caller.ID) // used by per-user rate limiting
}

// RequireRoles passes the request through only when a caller identity is
// attached and its role is in the given set. Missing identity is an
// authentication failure, a role mismatch an authorization one.
func RequireRoles(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "not authenticated", nil)
			c.Abort()
			return
		}
		for _, r := range roles {
			if caller.Role == r {
				c.Next()
				return
			}
		}
		response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
		c.Abort()
	}
}
