package main

import (
	"discovery/internal/domain/targets"
	"discovery/internal/params"
	"discovery/internal/reviewing"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type targetFeedResponse struct {
	reviewing.FeedPage
	Aggregate targets.Aggregate `json:"aggregate"`
}

// getTargetReviewsHandler godoc
//
//	@Summary		List reviews of a place or event
//	@Description	Approved reviews, newest first, with the target's aggregate rating. Pass next_cursor back as cursor to continue.
//	@Tags			reviews
//	@Produce		json
//	@Param			targetID	path		int		true	"Place or event ID"
//	@Param			cursor		query		string	false	"Opaque cursor from a previous page"
//	@Param			limit		query		int		false	"Page size (default 10, max 50)"
//	@Success		200			{object}	targetFeedResponse
//	@Failure		400			{object}	error	"Invalid cursor"
//	@Failure		404			{object}	error	"Target not found"
//	@Router			/places/{targetID}/reviews [get]
//	@Router			/events/{targetID}/reviews [get]
func (app *application) getTargetReviewsHandler(w http.ResponseWriter, r *http.Request) {
	target := getTargetFromContext(r)
	fp := params.ParseFeed(r.URL.Query())

	agg, err := app.aggregates.GetAggregate(r.Context(), target)
	if err != nil {
		app.reviewErrorResponse(w, r, err)
		return
	}

	page, err := app.feed.Page(r.Context(), reviewing.FeedQuery{
		Selector: reviewing.ForTarget(target),
		Cursor:   fp.Cursor,
		PageSize: fp.Limit,
	})
	if err != nil {
		app.reviewErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, targetFeedResponse{FeedPage: page, Aggregate: agg}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getUserReviewsHandler godoc
//
//	@Summary		List a user's reviews
//	@Description	The author sees every review they wrote in any status; everyone else sees approved, non-anonymous ones.
//	@Tags			reviews
//	@Produce		json
//	@Param			userID	path		int		true	"User ID"
//	@Param			cursor	query		string	false	"Opaque cursor from a previous page"
//	@Param			limit	query		int		false	"Page size (default 10, max 50)"
//	@Success		200		{object}	reviewing.FeedPage
//	@Failure		400		{object}	error	"Invalid user ID or cursor"
//	@Security		ApiKeyAuth
//	@Router			/users/{userID}/reviews [get]
func (app *application) getUserReviewsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		app.badRequestResponse(w, r, errors.New("invalid user ID"))
		return
	}
	fp := params.ParseFeed(r.URL.Query())

	visibility := reviewing.VisibilityPublic
	if id := getIdentityFromContext(r); id != nil && id.UserID == userID {
		visibility = reviewing.VisibilityOwner
	}

	page, err := app.feed.Page(r.Context(), reviewing.FeedQuery{
		Selector:   reviewing.ForAuthor(userID),
		Cursor:     fp.Cursor,
		PageSize:   fp.Limit,
		Visibility: visibility,
	})
	if err != nil {
		app.reviewErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, page); err != nil {
		app.internalServerError(w, r, err)
	}
}
