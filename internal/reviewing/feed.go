package reviewing

import (
	"context"
	"errors"

	"discovery/internal/domain/reviews"
	"discovery/internal/params"
)

const (
	DefaultFeedPageSize = 10
	MaxFeedPageSize     = 50
)

// Visibility decides which statuses a feed reader may see.
type Visibility int

const (
	// VisibilityPublic shows approved reviews only.
	VisibilityPublic Visibility = iota
	// VisibilityOwner shows every status; used for an author's own activity tab.
	VisibilityOwner
)

// Selector picks either a target's reviews or an author's reviews.
type Selector struct {
	target   *reviews.Target
	authorID *int64
}

func ForTarget(t reviews.Target) Selector {
	return Selector{target: &t}
}

func ForAuthor(authorID int64) Selector {
	return Selector{authorID: &authorID}
}

func (s Selector) Target() (reviews.Target, bool) {
	if s.target == nil {
		return reviews.Target{}, false
	}
	return *s.target, true
}

func (s Selector) AuthorID() (int64, bool) {
	if s.authorID == nil {
		return 0, false
	}
	return *s.authorID, true
}

type FeedQuery struct {
	Selector   Selector
	Cursor     string
	PageSize   int
	Visibility Visibility
}

type FeedPage struct {
	Reviews    []reviews.Review `json:"reviews"`
	NextCursor string           `json:"next_cursor,omitempty"`
	HasMore    bool             `json:"has_more"`
}

// Feed pages through reviews newest first using a value cursor. The cursor
// is an exclusive bound on (created_at, id), so rows inserted after the first
// page never shift or repeat in later pages.
type Feed struct {
	store reviews.Store
	codec *params.CursorCodec
}

func NewFeed(store reviews.Store, codec *params.CursorCodec) *Feed {
	return &Feed{store: store, codec: codec}
}

func (f *Feed) Page(ctx context.Context, q FeedQuery) (FeedPage, error) {
	filter := reviews.FeedFilter{
		Limit:        clampPageSize(q.PageSize),
		ApprovedOnly: q.Visibility != VisibilityOwner,
	}

	target, byTarget := q.Selector.Target()
	authorID, byAuthor := q.Selector.AuthorID()
	switch {
	case byTarget:
		if !target.Kind.Valid() || target.ID <= 0 {
			return FeedPage{}, ErrInvalidTarget
		}
		filter.Target = &target
	case byAuthor:
		filter.AuthorID = &authorID
		// Anonymous reviews must not be traceable from someone else's profile.
		filter.ExcludeAnonymous = q.Visibility != VisibilityOwner
	default:
		return FeedPage{}, errors.New("feed selector is empty")
	}

	if q.Cursor != "" {
		cur, err := f.codec.Decode(q.Cursor)
		if err != nil {
			return FeedPage{}, ErrInvalidCursor
		}
		filter.Cursor = &cur
	}

	rows, err := f.store.Feed(ctx, filter)
	if err != nil {
		return FeedPage{}, err
	}

	page := FeedPage{
		Reviews: rows,
		HasMore: len(rows) == filter.Limit,
	}
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		next, err := f.codec.Encode(reviews.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		if err != nil {
			return FeedPage{}, err
		}
		page.NextCursor = next
	}

	if q.Visibility != VisibilityOwner {
		for i := range page.Reviews {
			redactAnonymous(&page.Reviews[i])
		}
	}
	return page, nil
}

func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return DefaultFeedPageSize
	case n > MaxFeedPageSize:
		return MaxFeedPageSize
	default:
		return n
	}
}

// redactAnonymous hides who wrote an anonymous review. The author id stays
// stored; it is only dropped from public output.
func redactAnonymous(r *reviews.Review) {
	if !r.IsAnonymous {
		return
	}
	r.AuthorID = nil
	r.AuthorName = nil
}
