package params

import (
	"math"
	"net/url"
	"testing"
	"time"

	"discovery/internal/domain/reviews"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Limit: 15, Page: 1, Offset: 0}},
		{"page=3&limit=10", Pagination{Limit: 10, Page: 3, Offset: 20}},
		{"limit=500", Pagination{Limit: 30, Page: 1, Offset: 0}},
		{"limit=-4&page=0", Pagination{Limit: 15, Page: 1, Offset: 0}},
		{"limit=abc&page=two", Pagination{Limit: 15, Page: 1, Offset: 0}},
	}

	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ParsePagination(q), tt.query)
	}
}

func TestParsePagination_HugePageDoesNotOverflow(t *testing.T) {
	q, err := url.ParseQuery("page=9223372036854775807&limit=30")
	require.NoError(t, err)

	for _, p := range []Pagination{ParsePagination(q), NewPagination(math.MaxInt, 30), NewPagination(math.MaxInt, 0)} {
		assert.GreaterOrEqual(t, p.Offset, 0)
		assert.LessOrEqual(t, p.Offset, math.MaxInt32)
		assert.Greater(t, p.Page, 1)

		p.ComputeMeta(100)
		assert.False(t, p.HasNext)
		assert.True(t, p.HasPrev)
	}
}

func TestComputeMeta(t *testing.T) {
	p := NewPagination(2, 10)
	p.ComputeMeta(25)

	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p = NewPagination(3, 10)
	p.ComputeMeta(25)
	assert.False(t, p.HasNext)
}

func TestParseFeed(t *testing.T) {
	q, err := url.ParseQuery("cursor=%20abc%20&limit=7")
	require.NoError(t, err)

	assert.Equal(t, FeedParams{Cursor: "abc", Limit: 7}, ParseFeed(q))
}

func TestCursorCodec(t *testing.T) {
	codec, err := NewCursorCodec("salt")
	require.NoError(t, err)

	cur := reviews.Cursor{
		CreatedAt: time.Date(2026, 10, 1, 8, 30, 15, 123456000, time.UTC),
		ID:        98765,
	}
	token, err := codec.Encode(cur)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(token), 12)

	got, err := codec.Decode(token)
	require.NoError(t, err)
	assert.True(t, cur.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, cur.ID, got.ID)

	_, err = codec.Decode("%%%")
	assert.ErrorIs(t, err, ErrMalformedCursor)
}
