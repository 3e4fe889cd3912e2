package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// URL: /moderation/reviews?page=2&limit=30
// → ParsePagination() → Pagination{Limit:30, Page:2, Offset:30}
// → SQL: SELECT ... LIMIT 30 OFFSET 30
// → ComputeMeta(total) → fills TotalPages, HasNext, etc.
//
// Offset pages are only used for the moderation queue. Public feeds page by
// cursor, see FeedParams.
type Pagination struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

const (
	DefaultPageLimit = 15
	MaxPageLimit     = 30
)

// ParsePagination parses ?limit=...&page=... safely. Keys are case sensitive.
func ParsePagination(q url.Values) Pagination {
	return NewPagination(atoiOrZero(q.Get("page")), atoiOrZero(q.Get("limit")))
}

// NewPagination clamps page and limit and derives the offset.
func NewPagination(page, limit int) Pagination {
	p := Pagination{Limit: DefaultPageLimit, Page: 1}

	switch {
	case limit <= 0:
	case limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	default:
		p.Limit = limit
	}
	if page > 0 {
		p.Page = page
	}
	// Offsets are bound as int4 and must not wrap.
	if maxPage := math.MaxInt32/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta updates pagination after fetching total count.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = (p.Page * p.Limit) < total
}

// FeedParams carries the raw cursor and the requested page size of a feed call.
type FeedParams struct {
	Cursor string
	Limit  int
}

// ParseFeed reads ?cursor=...&limit=... . Clamping happens in the feed itself.
func ParseFeed(q url.Values) FeedParams {
	return FeedParams{
		Cursor: strings.TrimSpace(q.Get("cursor")),
		Limit:  atoiOrZero(q.Get("limit")),
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
