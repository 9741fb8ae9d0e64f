package repository

import (
	"context"
	"errors"

	"github.com/bytebeat/bytebeat-api/internal/domain/entity"
)

// ErrNotFound is returned by repositories when an id or unique key does not
// resolve to a stored row.
var ErrNotFound = errors.New("not found")

// UserRepository defines the persistence interface for the identity directory.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}
