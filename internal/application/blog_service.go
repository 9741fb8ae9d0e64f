package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bytebeat/bytebeat-api/internal/domain/entity"
	repo "github.com/bytebeat/bytebeat-api/internal/domain/repository"
	"github.com/bytebeat/bytebeat-api/pkg/helpers"
)

// Caller is the authenticated identity acting on the blog aggregate, as
// resolved by the access guard.
type Caller struct {
	ID     string
	Name   string
	Role   entity.Role
	Avatar string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool { return c.Role == entity.RoleAdmin }

// BlogService owns the blog aggregate: entity-level validation, the
// authorization rules for every mutation, and the list query engine.
type BlogService struct {
	Repo         repo.BlogRepository
	GCS          *storage.Client
	GCSBucket    string
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESBlogsIndex string
}

func NewBlogService(r repo.BlogRepository, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, es *elasticsearch.Client, esBlogsIndex string) *BlogService {
	return &BlogService{
		Repo:         r,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		Logger:       logger,
		ES:           es,
		ESBlogsIndex: esBlogsIndex,
	}
}

type CreateBlogInput struct {
	Title    string
	Content  string
	Summary  string
	Image    string
	Category string
	Tags     []string
}

// UpdateBlogInput is a partial patch; nil fields are left untouched.
// The author is immutable and deliberately absent.
type UpdateBlogInput struct {
	Title    *string
	Content  *string
	Summary  *string
	Image    *string
	Category *string
	Tags     *[]string
}

func validateBlogFields(title, content, summary, category string) error {
	verr := newValidationError()
	if strings.TrimSpace(title) == "" {
		verr.add("title", "is required")
	} else if len(title) > entity.TitleMaxLen {
		verr.add("title", "must be at most 100 characters long")
	}
	if strings.TrimSpace(content) == "" {
		verr.add("content", "is required")
	}
	if len(summary) > entity.SummaryMaxLen {
		verr.add("summary", "must be at most 200 characters long")
	}
	if category == "" {
		verr.add("category", "is required")
	} else if !entity.Category(category).Valid() {
		verr.add("category", "is not a valid category")
	}
	return verr.orNil()
}

// Create validates the input and stores a new blog authored by authorID with
// empty likes and comments.
func (s *BlogService) Create(ctx context.Context, authorID string, in CreateBlogInput) (*entity.Blog, error) {
	if authorID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateBlogFields(in.Title, in.Content, in.Summary, in.Category); err != nil {
		return nil, err
	}
	b := &entity.Blog{
		Title:    in.Title,
		Content:  in.Content,
		Summary:  in.Summary,
		Image:    in.Image,
		Author:   entity.AuthorRef{ID: authorID},
		Category: entity.Category(in.Category),
		Tags:     in.Tags,
		Likes:    []string{},
		Comments: []entity.Comment{},
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, err
	}
	// re-read so the author reference is populated
	created, err := s.Repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	s.indexBlog(ctx, created)
	return created, nil
}

// Get returns the blog with its author populated as {id, name, avatar}.
func (s *BlogService) Get(ctx context.Context, id string) (*entity.Blog, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func canEditBlog(b *entity.Blog, caller Caller) bool {
	return b.Author.ID == caller.ID || caller.IsAdmin()
}

// Update applies the patch to mutable fields. Only the author or an admin
// may update; patched fields are re-validated under the create rules.
func (s *BlogService) Update(ctx context.Context, id string, caller Caller, in UpdateBlogInput) (*entity.Blog, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEditBlog(b, caller) {
		return nil, ErrForbidden
	}

	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Content != nil {
		b.Content = *in.Content
	}
	if in.Summary != nil {
		b.Summary = *in.Summary
	}
	if in.Image != nil {
		b.Image = *in.Image
	}
	if in.Category != nil {
		b.Category = entity.Category(*in.Category)
	}
	if in.Tags != nil {
		b.Tags = *in.Tags
	}
	if err := validateBlogFields(b.Title, b.Content, b.Summary, string(b.Category)); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, b); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	updated, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.indexBlog(ctx, updated)
	return updated, nil
}

// Delete removes the blog and its embedded comments and likes. Same
// authorization as Update.
func (s *BlogService) Delete(ctx context.Context, id string, caller Caller) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canEditBlog(b, caller) {
		return ErrForbidden
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.deleteBlogIndex(ctx, id)
	return nil
}

// ToggleLike likes the blog if the caller has not liked it yet, unlikes it
// otherwise, and returns the resulting likes set. The guard authenticates
// upstream; the empty-caller check here is defense in depth.
func (s *BlogService) ToggleLike(ctx context.Context, id, callerID string) ([]string, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	likes, err := s.Repo.ToggleLike(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return likes, nil
}

// AddComment prepends a fresh comment carrying a snapshot of the caller's
// name and avatar, and returns the comments newest first.
func (s *BlogService) AddComment(ctx context.Context, id string, caller Caller, text string) ([]entity.Comment, error) {
	if caller.ID == "" {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(text) == "" {
		verr := newValidationError()
		verr.add("text", "is required")
		return nil, verr
	}
	c := entity.Comment{
		ID:     uuid.NewString(),
		UserID: caller.ID,
		Text:   text,
		Name:   caller.Name,
		Avatar: caller.Avatar,
		Date:   time.Now().UTC(),
	}
	comments, err := s.Repo.AddComment(ctx, id, c)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comments, nil
}

// RemoveComment deletes an embedded comment. Allowed for the comment's
// author, the blog's author, or an admin.
func (s *BlogService) RemoveComment(ctx context.Context, id, commentID string, caller Caller) ([]entity.Comment, error) {
	if caller.ID == "" {
		return nil, ErrUnauthorized
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c := b.CommentByID(commentID)
	if c == nil {
		return nil, ErrNotFound
	}
	if c.UserID != caller.ID && b.Author.ID != caller.ID && !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	comments, err := s.Repo.RemoveComment(ctx, id, commentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comments, nil
}

// ListByAuthor returns all blogs by one author, newest first.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID string) ([]entity.Blog, error) {
	return s.Repo.List(ctx, repo.BlogFilter{AuthorID: authorID})
}

// UploadImage stores blog image bytes in GCS and returns the public URL.
func (s *BlogService) UploadImage(ctx context.Context, ownerID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("blogs", ownerID, id+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

// indexBlog mirrors the blog into Elasticsearch, best effort.
func (s *BlogService) indexBlog(ctx context.Context, b *entity.Blog) {
	if s.ES == nil || s.ESBlogsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         b.ID,
		"title":      b.Title,
		"summary":    b.Summary,
		"content":    b.Content,
		"category":   string(b.Category),
		"tags":       b.Tags,
		"author_id":  b.Author.ID,
		"created_at": b.CreatedAt.Format(time.RFC3339Nano),
	}
	body, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESBlogsIndex, DocumentID: b.ID, Body: strings.NewReader(string(body)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("blog_id", b.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("blog_id", b.ID).Warn("es index response error")
	}
}

func (s *BlogService) deleteBlogIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESBlogsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESBlogsIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("blog_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over the Elasticsearch mirror. It is a
// relevance-ranked complement to List, not part of the pagination contract.
func (s *BlogService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESBlogsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "summary", "content", "tags"},
			},
		},
		"size": size,
	}
	body, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESBlogsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
