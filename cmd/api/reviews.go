package main

import (
	"bytes"
	"discovery/internal/domain/reviews"
	"discovery/internal/domain/targets"
	"discovery/internal/media"
	"discovery/internal/reviewing"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type createReviewPayload struct {
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// createReviewHandler godoc
//
//	@Summary		Submit a review
//	@Description	Creates a pending review for a place or event. Send multipart with a "review" JSON field and an optional "photo" file, or plain JSON without a photo.
//	@Tags			reviews
//	@Accept			mpfd,json
//	@Produce		json
//	@Param			targetID	path		int		true	"Place or event ID"
//	@Param			review		formData	string	true	"Review JSON: {rating, comment, is_anonymous}"
//	@Param			photo		formData	file	false	"Photo (max 5MB, jpeg/png/webp/gif/heic)"
//	@Success		201			{object}	reviews.Review
//	@Failure		400			{object}	error	"Invalid rating, comment or photo"
//	@Failure		404			{object}	error	"Target not found"
//	@Failure		429			{object}	error	"Too many submissions"
//	@Failure		502			{object}	error	"Photo storage failed"
//	@Security		ApiKeyAuth
//	@Router			/places/{targetID}/reviews [post]
//	@Router			/events/{targetID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	target := getTargetFromContext(r)

	payload, photo, err := app.readReviewSubmission(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.aggregates.GetAggregate(r.Context(), target); err != nil {
		app.reviewErrorResponse(w, r, err)
		return
	}

	in := reviewing.SubmitInput{
		Target:      target,
		Rating:      payload.Rating,
		Comment:     payload.Comment,
		IsAnonymous: payload.IsAnonymous,
		Photo:       photo,
	}
	if id := getIdentityFromContext(r); id != nil {
		userID := id.UserID
		in.Author = reviewing.Author{ID: &userID, Verified: id.VerifiedReviewer}
	}

	review, err := app.submitter.Submit(r.Context(), in)
	if err != nil {
		app.reviewErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// readReviewSubmission accepts either multipart (review JSON + photo file) or a
// plain JSON body.
func (app *application) readReviewSubmission(w http.ResponseWriter, r *http.Request) (createReviewPayload, *media.Upload, error) {
	var payload createReviewPayload

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := readJSON(w, r, &payload); err != nil {
			return payload, nil, err
		}
		return payload, nil, nil
	}

	// leave room for the form fields around the photo
	maxBytes := app.config.media.maxBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return payload, nil, fmt.Errorf("failed to parse form: %w", err)
	}

	raw := r.FormValue("review")
	if raw == "" {
		return payload, nil, errors.New("review field is required")
	}
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return payload, nil, fmt.Errorf("invalid review field: %w", err)
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return payload, nil, nil
	}
	if err != nil {
		return payload, nil, fmt.Errorf("failed to get photo from form: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, app.config.media.maxBytes+1)); err != nil {
		return payload, nil, fmt.Errorf("failed to read photo: %w", err)
	}

	return payload, &media.Upload{
		Data:        buf.Bytes(),
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, nil
}

func (app *application) reviewErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviewing.ErrInvalidRating),
		errors.Is(err, reviewing.ErrCommentTooLong),
		errors.Is(err, reviewing.ErrInvalidTarget),
		errors.Is(err, reviewing.ErrInvalidStatus),
		errors.Is(err, reviewing.ErrInvalidCursor),
		errors.Is(err, reviewing.ErrBatchTooLarge),
		errors.Is(err, media.ErrInvalidAttachment):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, reviews.ErrReviewNotFound),
		errors.Is(err, targets.ErrTargetNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, media.ErrAttachmentUploadFailed):
		app.badGatewayResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
