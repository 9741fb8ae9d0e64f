package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bytebeat/bytebeat-api/internal/domain/entity"
	"github.com/bytebeat/bytebeat-api/internal/domain/repository"
)

// BlogRepository stores each blog as a single row: scalar columns plus
// likes text[] and comments jsonb, so the row is the atomicity scope for
// all embedded data (document model). Like and comment mutations are
// single UPDATE statements; Postgres row-level atomicity guarantees that
// concurrent toggles by different users both stick.
type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

const blogColumns = `
	b.id, b.title, b.content, b.summary, b.image_url, b.category,
	b.tags, b.likes, b.comments, b.created_at, b.updated_at,
	u.id, u.name, u.avatar_url`

func scanBlog(row pgx.Row) (*entity.Blog, error) {
	b := &entity.Blog{}
	var comments []byte
	if err := row.Scan(
		&b.ID, &b.Title, &b.Content, &b.Summary, &b.Image, &b.Category,
		&b.Tags, &b.Likes, &comments, &b.CreatedAt, &b.UpdatedAt,
		&b.Author.ID, &b.Author.Name, &b.Author.Avatar,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(comments, &b.Comments); err != nil {
		return nil, err
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Likes == nil {
		b.Likes = []string{}
	}
	return b, nil
}

func (r *BlogRepository) Create(ctx context.Context, b *entity.Blog) error {
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Likes == nil {
		b.Likes = []string{}
	}
	if b.Comments == nil {
		b.Comments = []entity.Comment{}
	}
	comments, err := json.Marshal(b.Comments)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blogs (title, content, summary, image_url, author_id, category, tags, likes, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, b.Title, b.Content, b.Summary, b.Image, b.Author.ID, string(b.Category), b.Tags, b.Likes, comments)

	return row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BlogRepository) GetByID(ctx context.Context, id string) (*entity.Blog, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+blogColumns+`
		FROM blogs b
		JOIN users u ON u.id = b.author_id
		WHERE b.id = $1
	`, id)
	return scanBlog(row)
}

// Update writes the mutable fields only; author_id is never touched.
func (r *BlogRepository) Update(ctx context.Context, b *entity.Blog) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE blogs
		SET title = $1, content = $2, summary = $3, image_url = $4,
		    category = $5, tags = $6, updated_at = now()
		WHERE id = $7
	`, b.Title, b.Content, b.Summary, b.Image, string(b.Category), b.Tags, b.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the row; embedded comments and likes go with it.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) ToggleLike(ctx context.Context, id, userID string) ([]string, error) {
	var likes []string
	row := r.pool.QueryRow(ctx, `
		UPDATE blogs
		SET likes = CASE
		        WHEN $2 = ANY(likes) THEN array_remove(likes, $2)
		        ELSE array_append(likes, $2)
		    END,
		    updated_at = now()
		WHERE id = $1
		RETURNING likes
	`, id, userID)
	if err := row.Scan(&likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if likes == nil {
		likes = []string{}
	}
	return likes, nil
}

func (r *BlogRepository) AddComment(ctx context.Context, id string, c entity.Comment) ([]entity.Comment, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var raw []byte
	row := r.pool.QueryRow(ctx, `
		UPDATE blogs
		SET comments = jsonb_build_array($2::jsonb) || comments,
		    updated_at = now()
		WHERE id = $1
		RETURNING comments
	`, id, doc)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	var comments []entity.Comment
	if err := json.Unmarshal(raw, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *BlogRepository) RemoveComment(ctx context.Context, id, commentID string) ([]entity.Comment, error) {
	var raw []byte
	// rebuild the array without the matching element, preserving order
	row := r.pool.QueryRow(ctx, `
		UPDATE blogs
		SET comments = COALESCE((
		        SELECT jsonb_agg(c ORDER BY ord)
		        FROM jsonb_array_elements(comments) WITH ORDINALITY AS t(c, ord)
		        WHERE c->>'id' <> $2
		    ), '[]'::jsonb),
		    updated_at = now()
		WHERE id = $1
		RETURNING comments
	`, id, commentID)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	var comments []entity.Comment
	if err := json.Unmarshal(raw, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// filterClauses builds the WHERE fragment for a BlogFilter. Filters are
// ANDed; keyword matches title, content and any tag case-insensitively.
func filterClauses(f repository.BlogFilter) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if f.Keyword != "" {
		args = append(args, "%"+f.Keyword+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(b.title ILIKE $%d OR b.content ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(b.tags) tag WHERE tag ILIKE $%d))",
			n, n, n))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		clauses = append(clauses, fmt.Sprintf("b.category = $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(b.tags)", len(args)))
	}
	if f.AuthorID != "" {
		args = append(args, f.AuthorID)
		clauses = append(clauses, fmt.Sprintf("b.author_id = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *BlogRepository) Count(ctx context.Context, f repository.BlogFilter) (int, error) {
	where, args := filterClauses(f)
	var total int
	row := r.pool.QueryRow(ctx, `SELECT count(*) FROM blogs b`+where, args...)
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BlogRepository) List(ctx context.Context, f repository.BlogFilter) ([]entity.Blog, error) {
	where, args := filterClauses(f)
	q := `
		SELECT ` + blogColumns + `
		FROM blogs b
		JOIN users u ON u.id = b.author_id` + where + `
		ORDER BY b.created_at DESC, b.id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := make([]entity.Blog, 0, f.Limit)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}
	return blogs, rows.Err()
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
