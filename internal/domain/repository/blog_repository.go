package repository

import (
	"context"

	"github.com/bytebeat/bytebeat-api/internal/domain/entity"
)

// BlogFilter narrows List and Count. All supplied fields are ANDed.
// Keyword matches title, content and tags case-insensitively.
type BlogFilter struct {
	Keyword  string
	Category string
	Tag      string
	AuthorID string
	Offset   int
	Limit    int
}

// BlogRepository defines the persistence interface for the blog aggregate.
// Like and comment mutations operate on the embedded data of a single blog
// and must be atomic with respect to concurrent callers on the same blog;
// every mutation also refreshes the blog's updated_at.
type BlogRepository interface {
	Create(ctx context.Context, b *entity.Blog) error
	GetByID(ctx context.Context, id string) (*entity.Blog, error)
	Update(ctx context.Context, b *entity.Blog) error
	Delete(ctx context.Context, id string) error

	// ToggleLike adds userID to the likes set if absent, removes it if
	// present, and returns the resulting set.
	ToggleLike(ctx context.Context, id, userID string) ([]string, error)
	// AddComment prepends c to the blog's comments and returns the
	// resulting list (newest first).
	AddComment(ctx context.Context, id string, c entity.Comment) ([]entity.Comment, error)
	// RemoveComment deletes the embedded comment with commentID and
	// returns the remaining comments in stored order.
	RemoveComment(ctx context.Context, id, commentID string) ([]entity.Comment, error)

	Count(ctx context.Context, f BlogFilter) (int, error)
	List(ctx context.Context, f BlogFilter) ([]entity.Blog, error)
}
