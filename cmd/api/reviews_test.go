package main

import (
	"bytes"
	"discovery/internal/auth"
	"discovery/internal/domain/reviews"
	"discovery/internal/domain/targets"
	"discovery/internal/media"
	"discovery/internal/ratelimiter"
	"discovery/internal/reviewing"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var cafe = reviews.Target{ID: 1, Kind: reviews.TargetPlace}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartReview(t *testing.T, path, review string, photo []byte, contentType string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("review", review))

	if photo != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="photo"; filename="photo.png"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateReview_AnonymousJSON(t *testing.T) {
	ta := newTestApp(t)
	ta.aggregates.On("GetAggregate", cafe).Return(targets.Aggregate{}, nil)
	ta.submitter.On("Submit", mock.MatchedBy(func(in reviewing.SubmitInput) bool {
		return in.Target == cafe && in.Author.ID == nil && in.Rating == 4 && in.IsAnonymous && in.Photo == nil
	})).Return(&reviews.Review{ID: 11, TargetID: 1, TargetKind: reviews.TargetPlace, Rating: 4, Status: reviews.StatusPending}, nil).Once()

	rr := ta.serve(jsonRequest(http.MethodPost, "/v1/places/1/reviews", `{"rating":4,"comment":"nice","is_anonymous":true}`))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp struct {
		Data reviews.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.Data.ID)
	assert.Equal(t, reviews.StatusPending, resp.Data.Status)
	ta.submitter.AssertExpectations(t)
}

func TestCreateReview_MultipartWithPhotoAndIdentity(t *testing.T) {
	ta := newTestApp(t)
	photo := []byte("\x89PNG\r\n\x1a\nfake")
	jazz := reviews.Target{ID: 7, Kind: reviews.TargetEvent}
	ta.aggregates.On("GetAggregate", jazz).Return(targets.Aggregate{}, nil)
	ta.submitter.On("Submit", mock.MatchedBy(func(in reviewing.SubmitInput) bool {
		return in.Target == jazz &&
			in.Author.ID != nil && *in.Author.ID == 42 && in.Author.Verified &&
			in.Photo != nil && bytes.Equal(in.Photo.Data, photo) &&
			in.Photo.ContentType == "image/png" && in.Photo.Size == int64(len(photo))
	})).Return(&reviews.Review{ID: 3}, nil).Once()

	req := multipartReview(t, "/v1/events/7/reviews", `{"rating":5}`, photo, "image/png")
	req.Header.Set("Authorization", ta.token(t, auth.Identity{UserID: 42, VerifiedReviewer: true}))
	rr := ta.serve(req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	ta.submitter.AssertExpectations(t)
}

func TestCreateReview_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{"rating out of range", func(t *testing.T) *http.Request {
			return jsonRequest(http.MethodPost, "/v1/places/1/reviews", `{"rating":9}`)
		}},
		{"unknown field", func(t *testing.T) *http.Request {
			return jsonRequest(http.MethodPost, "/v1/places/1/reviews", `{"rating":3,"stars":3}`)
		}},
		{"bad target id", func(t *testing.T) *http.Request {
			return jsonRequest(http.MethodPost, "/v1/places/abc/reviews", `{"rating":3}`)
		}},
		{"multipart without review field", func(t *testing.T) *http.Request {
			return multipartReview(t, "/v1/places/1/reviews", "", []byte("x"), "image/png")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			rr := ta.serve(tt.req(t))
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			ta.submitter.AssertNotCalled(t, "Submit", mock.Anything)
		})
	}
}

func TestCreateReview_RejectsInvalidToken(t *testing.T) {
	ta := newTestApp(t)
	req := jsonRequest(http.MethodPost, "/v1/places/1/reviews", `{"rating":3}`)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rr := ta.serve(req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	ta.submitter.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestCreateReview_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"comment too long", reviewing.ErrCommentTooLong, http.StatusBadRequest},
		{"invalid photo", fmt.Errorf("%w: too large", media.ErrInvalidAttachment), http.StatusBadRequest},
		{"upload failed", fmt.Errorf("%w: timeout", media.ErrAttachmentUploadFailed), http.StatusBadGateway},
		{"store down", fmt.Errorf("insert review: %w", assert.AnError), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			ta.aggregates.On("GetAggregate", cafe).Return(targets.Aggregate{}, nil)
			ta.submitter.On("Submit", mock.Anything).Return(nil, tt.err).Once()

			rr := ta.serve(jsonRequest(http.MethodPost, "/v1/places/1/reviews", `{"rating":3}`))

			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestCreateReview_UnknownTarget(t *testing.T) {
	ta := newTestApp(t)
	ta.aggregates.On("GetAggregate", reviews.Target{ID: 99, Kind: reviews.TargetPlace}).
		Return(targets.Aggregate{}, targets.ErrTargetNotFound)

	rr := ta.serve(jsonRequest(http.MethodPost, "/v1/places/99/reviews", `{"rating":3}`))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	ta.submitter.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestCreateReview_RateLimited(t *testing.T) {
	ta := newTestApp(t)
	ta.app.config.rateLimiter.Enabled = true
	ta.app.rateLimiter = ratelimiter.NewFixedWindowLimiter(1, time.Minute)
	ta.aggregates.On("GetAggregate", cafe).Return(targets.Aggregate{}, nil)
	ta.submitter.On("Submit", mock.Anything).Return(&reviews.Review{ID: 1}, nil).Once()

	first := ta.serve(jsonRequest(http.MethodPost, "/v1/places/1/reviews", `{"rating":3}`))
	second := ta.serve(jsonRequest(http.MethodPost, "/v1/places/1/reviews", `{"rating":3}`))

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	ta.submitter.AssertNumberOfCalls(t, "Submit", 1)
}
