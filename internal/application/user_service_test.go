package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebeat/bytebeat-api/internal/domain/entity"
	repo "github.com/bytebeat/bytebeat-api/internal/domain/repository"
	"github.com/bytebeat/bytebeat-api/pkg/helpers"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%03d", f.seq)
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	cp.UpdatedAt = time.Now().UTC()
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

var _ repo.UserRepository = (*fakeUserRepo)(nil)

func newTestUserService() (*UserService, *fakeUserRepo) {
	f := newFakeUserRepo()
	svc := &UserService{
		Repo: f,
		JWT:  helpers.NewJWTManager("test-secret", time.Hour),
	}
	return svc, f
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService()
		res, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.True(t, res.ExpiresAt.After(time.Now()))
		assert.Equal(t, entity.RoleUser, res.User.Role)
		assert.NotEqual(t, "password123", res.User.Password, "password must be stored hashed")
		assert.True(t, helpers.CompareHashAndPassword(res.User.Password, "password123"))

		claims, err := svc.JWT.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, claims.UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService()
		_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
		require.NoError(t, err)
		_, err = svc.Register(context.Background(), "Alice Again", "alice@example.com", "password456")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	register := func(t *testing.T) (*UserService, *AuthResult) {
		t.Helper()
		svc, _ := newTestUserService()
		res, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
		require.NoError(t, err)
		return svc, res
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc, reg := register(t)
		res, err := svc.Login(context.Background(), "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, res.User.ID)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc, _ := register(t)
		_, err := svc.Login(context.Background(), "alice@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService()
		_, err := svc.Login(context.Background(), "ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_Profile(t *testing.T) {
	t.Parallel()

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService()
		_, err := svc.GetProfile(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update applies non-empty fields only", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService()
		reg, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
		require.NoError(t, err)

		got, err := svc.UpdateProfile(context.Background(), reg.User.ID, UpdateProfileInput{Name: "Alicia"})
		require.NoError(t, err)
		assert.Equal(t, "Alicia", got.Name)
		assert.Equal(t, reg.User.AvatarURL, got.AvatarURL)

		got, err = svc.UpdateProfile(context.Background(), reg.User.ID, UpdateProfileInput{AvatarURL: "http://img/a.png"})
		require.NoError(t, err)
		assert.Equal(t, "Alicia", got.Name)
		assert.Equal(t, "http://img/a.png", got.AvatarURL)
	})

	t.Run("update missing", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService()
		_, err := svc.UpdateProfile(context.Background(), "nope", UpdateProfileInput{Name: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc, f := newTestUserService()
		reg, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), reg.User.ID))
		assert.Empty(t, f.users)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService()
		assert.ErrorIs(t, svc.Delete(context.Background(), "nope"), ErrNotFound)
	})
}
