package application

import (
	"context"
	"net/url"
	"strconv"

	"github.com/bytebeat/bytebeat-api/internal/domain/entity"
	repo "github.com/bytebeat/bytebeat-api/internal/domain/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListQuery is the read contract over the blog collection: filters are
// ANDed, results are ordered newest first, and the page window is bounded
// by limit.
type ListQuery struct {
	Page     int
	Limit    int
	Keyword  string
	Category string
	Tag      string
	AuthorID string
}

// ParseListQuery reads pagination and filter parameters from the query
// string. Non-numeric or out-of-range page/limit fall back to the defaults
// (1 and 10) rather than failing.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Page:     defaultPage,
		Limit:    defaultLimit,
		Keyword:  values.Get("keyword"),
		Category: values.Get("category"),
		Tag:      values.Get("tag"),
		AuthorID: values.Get("author"),
	}
	if p, err := strconv.Atoi(values.Get("page")); err == nil && p >= 1 {
		q.Page = p
	}
	if l, err := strconv.Atoi(values.Get("limit")); err == nil && l >= 1 {
		q.Limit = l
	}
	return q
}

// PageRef points at an adjacent page of the same window size.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries next/prev cursors; either may be absent at the edges
// of the collection.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// ListResult is one bounded page of blogs plus its pagination metadata.
// Count is the number of returned items, not the filtered total.
type ListResult struct {
	Count      int
	Pagination Pagination
	Data       []entity.Blog
}

// List resolves a read request into a deterministic page. Ordering is
// createdAt descending with the id as tie-break, which makes pagination
// stable for blogs created within the same timestamp resolution.
func (s *BlogService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	// an unrecognized category cannot match anything; treat it as absent
	if q.Category != "" && !entity.Category(q.Category).Valid() {
		q.Category = ""
	}

	f := repo.BlogFilter{
		Keyword:  q.Keyword,
		Category: q.Category,
		Tag:      q.Tag,
		AuthorID: q.AuthorID,
	}
	total, err := s.Repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	startIndex := (q.Page - 1) * q.Limit
	f.Offset = startIndex
	f.Limit = q.Limit
	blogs, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	res := &ListResult{Count: len(blogs), Data: blogs}
	if startIndex+q.Limit < total {
		res.Pagination.Next = &PageRef{Page: q.Page + 1, Limit: q.Limit}
	}
	if startIndex > 0 {
		res.Pagination.Prev = &PageRef{Page: q.Page - 1, Limit: q.Limit}
	}
	return res, nil
}
