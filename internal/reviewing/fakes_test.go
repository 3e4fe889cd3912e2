package reviewing_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"discovery/internal/domain/reviews"
	"discovery/internal/domain/targets"
	"discovery/internal/media"

	"github.com/stretchr/testify/mock"
)

// memReviews is an in-memory reviews.Store honouring the same query contract
// as the Postgres repository.
type memReviews struct {
	mu          sync.Mutex
	rows        map[int64]*reviews.Review
	nextID      int64
	clock       time.Time
	authorNames map[int64]string
	targetNames map[reviews.Target]string
	insertErr   error
}

func newMemReviews() *memReviews {
	return &memReviews{
		rows:        make(map[int64]*reviews.Review),
		clock:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		authorNames: make(map[int64]string),
		targetNames: make(map[reviews.Target]string),
	}
}

func (m *memReviews) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memReviews) withNames(r reviews.Review) reviews.Review {
	if r.AuthorID != nil {
		if name, ok := m.authorNames[*r.AuthorID]; ok {
			r.AuthorName = &name
		}
	}
	if name, ok := m.targetNames[r.Target()]; ok {
		r.TargetName = &name
	}
	return r
}

func (m *memReviews) Insert(_ context.Context, review *reviews.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	now := m.tick()
	review.ID = m.nextID
	review.Status = reviews.StatusPending
	review.CreatedAt = now
	review.UpdatedAt = now

	stored := *review
	m.rows[stored.ID] = &stored
	return nil
}

// insertAt stores a review with an explicit creation time.
func (m *memReviews) insertAt(r reviews.Review, at time.Time) reviews.Review {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = at
	r.UpdatedAt = at
	if r.Status == "" {
		r.Status = reviews.StatusPending
	}
	stored := r
	m.rows[r.ID] = &stored
	return r
}

func (m *memReviews) GetByID(_ context.Context, id int64) (*reviews.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[id]
	if !ok {
		return nil, reviews.ErrReviewNotFound
	}
	out := m.withNames(*r)
	return &out, nil
}

func (m *memReviews) UpdateStatus(_ context.Context, id int64, status reviews.Status, moderatorID *int64) (*reviews.Review, reviews.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[id]
	if !ok {
		return nil, "", reviews.ErrReviewNotFound
	}
	prev := r.Status
	r.Status = status
	r.ModeratedBy = moderatorID
	r.UpdatedAt = m.tick()
	out := *r
	return &out, prev, nil
}

func (m *memReviews) ApprovedStats(_ context.Context, t reviews.Target) (reviews.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s reviews.Stats
	for _, r := range m.rows {
		if r.Target() == t && r.Status == reviews.StatusApproved {
			s.Count++
			s.RatingSum += int64(r.Rating)
		}
	}
	return s, nil
}

func (m *memReviews) sorted() []reviews.Review {
	out := make([]reviews.Review, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, m.withNames(*r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memReviews) ListForModeration(_ context.Context, f reviews.ModerationFilter) ([]reviews.Review, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(f.Search)
	contains := func(s *string) bool {
		return s != nil && strings.Contains(strings.ToLower(*s), needle)
	}

	var matched []reviews.Review
	for _, r := range m.sorted() {
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		if needle != "" && !contains(r.Comment) && !contains(r.AuthorName) && !contains(r.TargetName) {
			continue
		}
		matched = append(matched, r)
	}

	total := len(matched)
	if f.Offset >= total {
		return []reviews.Review{}, total, nil
	}
	end := min(f.Offset+f.Limit, total)
	return matched[f.Offset:end], total, nil
}

func (m *memReviews) Feed(_ context.Context, f reviews.FeedFilter) ([]reviews.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []reviews.Review{}
	for _, r := range m.sorted() {
		if f.Target != nil && r.Target() != *f.Target {
			continue
		}
		if f.AuthorID != nil && (r.AuthorID == nil || *r.AuthorID != *f.AuthorID) {
			continue
		}
		if f.ApprovedOnly && r.Status != reviews.StatusApproved {
			continue
		}
		if f.ExcludeAnonymous && r.IsAnonymous {
			continue
		}
		if c := f.Cursor; c != nil {
			older := r.CreatedAt.Before(c.CreatedAt) || (r.CreatedAt.Equal(c.CreatedAt) && r.ID < c.ID)
			if !older {
				continue
			}
		}
		out = append(out, r)
		if len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (m *memReviews) ReviewedTargets(_ context.Context) ([]reviews.Target, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := map[reviews.Target]struct{}{}
	var out []reviews.Target
	for _, r := range m.rows {
		if _, ok := seen[r.Target()]; ok {
			continue
		}
		seen[r.Target()] = struct{}{}
		out = append(out, r.Target())
	}
	return out, nil
}

// memTargets is an in-memory targets.Store.
type memTargets struct {
	mu      sync.Mutex
	aggs    map[reviews.Target]targets.Aggregate
	saves   int
	saveErr error
}

func newMemTargets(ts ...reviews.Target) *memTargets {
	m := &memTargets{aggs: make(map[reviews.Target]targets.Aggregate)}
	for _, t := range ts {
		m.aggs[t] = targets.Aggregate{}
	}
	return m
}

func (m *memTargets) GetAggregate(_ context.Context, t reviews.Target) (targets.Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	agg, ok := m.aggs[t]
	if !ok {
		return targets.Aggregate{}, targets.ErrTargetNotFound
	}
	return agg, nil
}

func (m *memTargets) SaveAggregate(_ context.Context, t reviews.Target, agg targets.Aggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.aggs[t]; !ok {
		return targets.ErrTargetNotFound
	}
	m.saves++
	m.aggs[t] = agg
	return nil
}

func (m *memTargets) RatedTargets(_ context.Context) ([]reviews.Target, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []reviews.Target
	for t, agg := range m.aggs {
		if agg.TotalReviews > 0 {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTargets) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

type mockAttacher struct {
	mock.Mock
}

func (m *mockAttacher) Attach(ctx context.Context, u media.Upload) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *mockAttacher) Discard(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

var errStoreDown = errors.New("store unavailable")
