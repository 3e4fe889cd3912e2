package main

import (
	"discovery/internal/domain/reviews"
	"discovery/internal/params"
	"discovery/internal/reviewing"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type moderationListResponse struct {
	Reviews    []reviews.Review  `json:"reviews"`
	Pagination params.Pagination `json:"pagination"`
}

// listModerationQueueHandler godoc
//
//	@Summary		Moderation queue
//	@Description	Reviews newest first, filtered by status and a free-text search over comment, author and target name.
//	@Tags			moderation
//	@Produce		json
//	@Param			status	query		string	false	"pending, approved, rejected or all"
//	@Param			q		query		string	false	"Search text"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Items per page (max 30)"
//	@Success		200		{object}	moderationListResponse
//	@Failure		400		{object}	error	"Unknown status"
//	@Failure		403		{object}	error	"Not a moderator"
//	@Security		ApiKeyAuth
//	@Router			/moderation/reviews [get]
func (app *application) listModerationQueueHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	out, pagination, err := app.moderation.List(r.Context(), reviewing.ModerationFilter{
		Status: q.Get("status"),
		Search: q.Get("q"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		app.reviewErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, moderationListResponse{Reviews: out, Pagination: pagination}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type moderateReviewPayload struct {
	Status string `json:"status" validate:"required,reviewstatus"`
}

type moderateReviewResponse struct {
	Review         *reviews.Review `json:"review"`
	AggregateStale bool            `json:"aggregate_stale"`
}

// moderateReviewHandler godoc
//
//	@Summary		Change a review's status
//	@Description	Approve, reject or return a review to pending. The decision is kept even if the target's rating could not be refreshed; aggregate_stale reports that case.
//	@Tags			moderation
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		int						true	"Review ID"
//	@Param			payload		body		moderateReviewPayload	true	"New status"
//	@Success		200			{object}	moderateReviewResponse
//	@Failure		400			{object}	error	"Invalid status"
//	@Failure		403			{object}	error	"Not a moderator"
//	@Failure		404			{object}	error	"Review not found"
//	@Security		ApiKeyAuth
//	@Router			/moderation/reviews/{reviewID} [patch]
func (app *application) moderateReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil || reviewID <= 0 {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	var payload moderateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.moderation.Transition(r.Context(), actorFrom(r), reviewID, reviews.Status(payload.Status))
	stale := reviewing.IsStale(err)
	if err != nil && !stale {
		app.reviewErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, moderateReviewResponse{Review: review, AggregateStale: stale}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type bulkModeratePayload struct {
	IDs    []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
	Status string  `json:"status" validate:"required,reviewstatus"`
}

type bulkModerateResponse struct {
	Succeeded       []int64          `json:"succeeded"`
	Failed          map[int64]string `json:"failed"`
	StaleAggregates []int64          `json:"stale_aggregates"`
}

// bulkModerateReviewsHandler godoc
//
//	@Summary		Change the status of many reviews
//	@Description	Applies one status to up to 100 reviews. Each review succeeds or fails on its own.
//	@Tags			moderation
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		bulkModeratePayload	true	"Review IDs and the new status"
//	@Success		200		{object}	bulkModerateResponse
//	@Failure		400		{object}	error	"Invalid status or too many IDs"
//	@Failure		403		{object}	error	"Not a moderator"
//	@Security		ApiKeyAuth
//	@Router			/moderation/reviews/bulk [post]
func (app *application) bulkModerateReviewsHandler(w http.ResponseWriter, r *http.Request) {
	var payload bulkModeratePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	res, err := app.moderation.BulkTransition(r.Context(), actorFrom(r), payload.IDs, reviews.Status(payload.Status))
	if err != nil {
		app.reviewErrorResponse(w, r, err)
		return
	}

	out := bulkModerateResponse{
		Succeeded:       res.Succeeded,
		Failed:          make(map[int64]string, len(res.Failed)),
		StaleAggregates: make([]int64, 0, len(res.StaleAggregates)),
	}
	for id, ferr := range res.Failed {
		if errors.Is(ferr, reviews.ErrReviewNotFound) {
			out.Failed[id] = "not found"
			continue
		}
		app.logger.Errorw("bulk moderation item failed", "review_id", id, "error", ferr.Error())
		out.Failed[id] = "internal error"
	}
	for _, id := range res.Succeeded {
		if _, ok := res.StaleAggregates[id]; ok {
			out.StaleAggregates = append(out.StaleAggregates, id)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

func actorFrom(r *http.Request) reviewing.Actor {
	id := getIdentityFromContext(r)
	if id == nil {
		return reviewing.Actor{}
	}
	return reviewing.Actor{ID: id.UserID, Role: id.Role}
}
