package main

import (
	"context"
	"discovery/internal/auth"
	"discovery/internal/domain/reviews"
	"discovery/internal/domain/targets"
	"discovery/internal/params"
	"discovery/internal/ratelimiter"
	"discovery/internal/reviewing"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubmitter struct{ mock.Mock }

func (m *mockSubmitter) Submit(ctx context.Context, in reviewing.SubmitInput) (*reviews.Review, error) {
	args := m.Called(in)
	r, _ := args.Get(0).(*reviews.Review)
	return r, args.Error(1)
}

type mockFeed struct{ mock.Mock }

func (m *mockFeed) Page(ctx context.Context, q reviewing.FeedQuery) (reviewing.FeedPage, error) {
	args := m.Called(q)
	return args.Get(0).(reviewing.FeedPage), args.Error(1)
}

type mockModeration struct{ mock.Mock }

func (m *mockModeration) List(ctx context.Context, filter reviewing.ModerationFilter) ([]reviews.Review, params.Pagination, error) {
	args := m.Called(filter)
	out, _ := args.Get(0).([]reviews.Review)
	return out, args.Get(1).(params.Pagination), args.Error(2)
}

func (m *mockModeration) Transition(ctx context.Context, actor reviewing.Actor, reviewID int64, status reviews.Status) (*reviews.Review, error) {
	args := m.Called(actor, reviewID, status)
	r, _ := args.Get(0).(*reviews.Review)
	return r, args.Error(1)
}

func (m *mockModeration) BulkTransition(ctx context.Context, actor reviewing.Actor, ids []int64, status reviews.Status) (reviewing.BulkResult, error) {
	args := m.Called(actor, ids, status)
	return args.Get(0).(reviewing.BulkResult), args.Error(1)
}

type mockAggregates struct{ mock.Mock }

func (m *mockAggregates) GetAggregate(ctx context.Context, target reviews.Target) (targets.Aggregate, error) {
	args := m.Called(target)
	return args.Get(0).(targets.Aggregate), args.Error(1)
}

type mockPinger struct{ mock.Mock }

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called().Error(0)
}

type testApp struct {
	app        *application
	handler    http.Handler
	jwt        *auth.JWTAuthenticator
	submitter  *mockSubmitter
	feed       *mockFeed
	moderation *mockModeration
	aggregates *mockAggregates
	pinger     *mockPinger
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	jwt := auth.NewJWTAuthenticator("test-secret", "Discovery", "Discovery", time.Hour)
	ta := &testApp{
		jwt:        jwt,
		submitter:  new(mockSubmitter),
		feed:       new(mockFeed),
		moderation: new(mockModeration),
		aggregates: new(mockAggregates),
		pinger:     new(mockPinger),
	}
	ta.app = &application{
		config: config{
			env: "test",
			auth: authConfig{
				basic: basicConfig{user: "ops", pass: "hunter2"},
			},
			media: mediaConfig{maxBytes: 1 << 20},
			rateLimiter: ratelimiter.Config{
				RequestsPerTimeFrame: 100,
				TimeFrame:            time.Minute,
			},
		},
		logger:        zap.NewNop().Sugar(),
		submitter:     ta.submitter,
		feed:          ta.feed,
		moderation:    ta.moderation,
		aggregates:    ta.aggregates,
		pinger:        ta.pinger,
		authenticator: jwt,
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(100, time.Minute),
	}
	ta.handler = ta.app.mount()
	return ta
}

func (ta *testApp) token(t *testing.T, id auth.Identity) string {
	t.Helper()
	token, err := ta.jwt.GenerateToken(id)
	require.NoError(t, err)
	return "Bearer " + token
}

func (ta *testApp) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ta.handler.ServeHTTP(rr, req)
	return rr
}
