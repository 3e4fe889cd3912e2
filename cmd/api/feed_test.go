package main

import (
	"discovery/internal/auth"
	"discovery/internal/domain/reviews"
	"discovery/internal/domain/targets"
	"discovery/internal/reviewing"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetTargetReviews_IncludesAggregate(t *testing.T) {
	ta := newTestApp(t)
	ta.aggregates.On("GetAggregate", cafe).Return(targets.Aggregate{AverageRating: 4.5, TotalReviews: 2}, nil)
	ta.feed.On("Page", mock.MatchedBy(func(q reviewing.FeedQuery) bool {
		target, ok := q.Selector.Target()
		return ok && target == cafe && q.Cursor == "abc" && q.PageSize == 2 && q.Visibility == reviewing.VisibilityPublic
	})).Return(reviewing.FeedPage{
		Reviews:    []reviews.Review{{ID: 9, Rating: 5}, {ID: 8, Rating: 4}},
		NextCursor: "next",
		HasMore:    true,
	}, nil)

	rr := ta.serve(httptest.NewRequest(http.MethodGet, "/v1/places/1/reviews?cursor=abc&limit=2", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Data struct {
			Reviews    []reviews.Review  `json:"reviews"`
			NextCursor string            `json:"next_cursor"`
			HasMore    bool              `json:"has_more"`
			Aggregate  targets.Aggregate `json:"aggregate"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Reviews, 2)
	assert.Equal(t, "next", resp.Data.NextCursor)
	assert.True(t, resp.Data.HasMore)
	assert.Equal(t, targets.Aggregate{AverageRating: 4.5, TotalReviews: 2}, resp.Data.Aggregate)
}

func TestGetTargetReviews_InvalidCursor(t *testing.T) {
	ta := newTestApp(t)
	ta.aggregates.On("GetAggregate", cafe).Return(targets.Aggregate{}, nil)
	ta.feed.On("Page", mock.Anything).Return(reviewing.FeedPage{}, reviewing.ErrInvalidCursor)

	rr := ta.serve(httptest.NewRequest(http.MethodGet, "/v1/places/1/reviews?cursor=zz", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetTargetReviews_UnknownTarget(t *testing.T) {
	ta := newTestApp(t)
	ta.aggregates.On("GetAggregate", reviews.Target{ID: 5, Kind: reviews.TargetEvent}).
		Return(targets.Aggregate{}, targets.ErrTargetNotFound)

	rr := ta.serve(httptest.NewRequest(http.MethodGet, "/v1/events/5/reviews", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	ta.feed.AssertNotCalled(t, "Page", mock.Anything)
}

func TestGetUserReviews_Visibility(t *testing.T) {
	tests := []struct {
		name     string
		identity *auth.Identity
		want     reviewing.Visibility
	}{
		{"anonymous caller", nil, reviewing.VisibilityPublic},
		{"another user", &auth.Identity{UserID: 3}, reviewing.VisibilityPublic},
		{"the author", &auth.Identity{UserID: 8}, reviewing.VisibilityOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			ta.feed.On("Page", mock.MatchedBy(func(q reviewing.FeedQuery) bool {
				author, ok := q.Selector.AuthorID()
				return ok && author == 8 && q.Visibility == tt.want
			})).Return(reviewing.FeedPage{Reviews: []reviews.Review{}}, nil).Once()

			req := httptest.NewRequest(http.MethodGet, "/v1/users/8/reviews", nil)
			if tt.identity != nil {
				req.Header.Set("Authorization", ta.token(t, *tt.identity))
			}
			rr := ta.serve(req)

			assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			ta.feed.AssertExpectations(t)
		})
	}
}

func TestGetUserReviews_BadUserID(t *testing.T) {
	ta := newTestApp(t)

	rr := ta.serve(httptest.NewRequest(http.MethodGet, "/v1/users/-4/reviews", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
