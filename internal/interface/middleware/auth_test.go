package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebeat/bytebeat-api/internal/domain/entity"
	repo "github.com/bytebeat/bytebeat-api/internal/domain/repository"
	"github.com/bytebeat/bytebeat-api/pkg/helpers"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) Update(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) Delete(context.Context, string) error       { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

var _ repo.UserRepository = (*stubUserRepo)(nil)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func authTestRouter(users repo.UserRepository, jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	auth := r.Group("/", Authenticate(users, jwt, nil))
	auth.GET("/whoami", func(c *gin.Context) {
		caller, _ := CallerFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": caller.ID, "role": caller.Role})
	})
	auth.GET("/admin", RequireRoles(entity.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"u-1": {ID: "u-1", Email: "a@example.com", Name: "A", Role: entity.RoleUser},
	}}
	r := authTestRouter(users, jwt)

	token, _, err := jwt.Generate("u-1")
	require.NoError(t, err)
	goneToken, _, err := jwt.Generate("u-gone")
	require.NoError(t, err)

	expired := helpers.NewJWTManager("test-secret", -time.Hour)
	expiredToken, _, err := expired.Generate("u-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer scheme", "Token " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized},
		{"subject no longer exists", "Bearer " + goneToken, http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"id":"u-1"`)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"u-1": {ID: "u-1", Role: entity.RoleUser},
		"a-1": {ID: "a-1", Role: entity.RoleAdmin},
	}}
	r := authTestRouter(users, jwt)

	userToken, _, err := jwt.Generate("u-1")
	require.NoError(t, err)
	adminToken, _, err := jwt.Generate("a-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"regular user rejected", userToken, http.StatusForbidden},
		{"admin allowed", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("no caller attached", func(t *testing.T) {
		t.Parallel()
		bare := gin.New()
		bare.GET("/admin", RequireRoles(entity.RoleAdmin), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		bare.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
