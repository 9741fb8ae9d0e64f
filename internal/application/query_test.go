package application

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want ListQuery
	}{
		{
			name: "empty falls back to defaults",
			raw:  "",
			want: ListQuery{Page: 1, Limit: 10},
		},
		{
			name: "explicit page and limit",
			raw:  "page=3&limit=25",
			want: ListQuery{Page: 3, Limit: 25},
		},
		{
			name: "non-numeric page ignored",
			raw:  "page=abc&limit=xyz",
			want: ListQuery{Page: 1, Limit: 10},
		},
		{
			name: "zero and negative ignored",
			raw:  "page=0&limit=-5",
			want: ListQuery{Page: 1, Limit: 10},
		},
		{
			name: "filters pass through",
			raw:  "keyword=go&category=Technology&tag=web&author=u-1",
			want: ListQuery{Page: 1, Limit: 10, Keyword: "go", Category: "Technology", Tag: "web", AuthorID: "u-1"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			values, err := url.ParseQuery(tt.raw)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParseListQuery(values))
		})
	}
}
