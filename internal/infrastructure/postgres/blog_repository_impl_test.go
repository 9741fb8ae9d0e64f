package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bytebeat/bytebeat-api/internal/domain/repository"
)

func TestFilterClauses(t *testing.T) {
	t.Parallel()

	t.Run("empty filter", func(t *testing.T) {
		t.Parallel()
		where, args := filterClauses(repository.BlogFilter{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("keyword reuses one placeholder", func(t *testing.T) {
		t.Parallel()
		where, args := filterClauses(repository.BlogFilter{Keyword: "go"})
		assert.Contains(t, where, "b.title ILIKE $1")
		assert.Contains(t, where, "b.content ILIKE $1")
		assert.Contains(t, where, "tag ILIKE $1")
		assert.Equal(t, []any{"%go%"}, args)
	})

	t.Run("all filters anded in order", func(t *testing.T) {
		t.Parallel()
		where, args := filterClauses(repository.BlogFilter{
			Keyword:  "go",
			Category: "Technology",
			Tag:      "web",
			AuthorID: "u-1",
		})
		assert.True(t, strings.HasPrefix(where, " WHERE "))
		assert.Contains(t, where, "b.category = $2")
		assert.Contains(t, where, "$3 = ANY(b.tags)")
		assert.Contains(t, where, "b.author_id = $4")
		assert.Equal(t, 3, strings.Count(where, " AND "))
		assert.Equal(t, []any{"%go%", "Technology", "web", "u-1"}, args)
	})
}
