package reviewing

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"discovery/internal/domain/reviews"

	"go.uber.org/zap"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// Author is the identity snapshot taken when a review is submitted.
// A nil ID means the submitter was not signed in.
type Author struct {
	ID       *int64
	Verified bool
}

// Actor is the moderator applying a status change.
type Actor struct {
	ID   int64
	Role string
}

type CreateInput struct {
	Target      reviews.Target
	Author      Author
	Rating      int
	Comment     string
	PhotoURL    *string
	IsAnonymous bool
}

// Manager owns the review state machine. Any status can move to any other
// status; only moves into or out of approved touch the target aggregate.
type Manager struct {
	store      reviews.Store
	aggregator *Aggregator
	logger     *zap.SugaredLogger
}

func NewManager(store reviews.Store, aggregator *Aggregator, logger *zap.SugaredLogger) *Manager {
	return &Manager{store: store, aggregator: aggregator, logger: logger}
}

// ValidateInput runs every check Create makes before it writes.
func ValidateInput(in CreateInput) error {
	if !in.Target.Kind.Valid() || in.Target.ID <= 0 {
		return ErrInvalidTarget
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return ErrInvalidRating
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Comment)) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// Create stores a new pending review. Pending reviews never count towards the
// aggregate, so nothing is recomputed here.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*reviews.Review, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	review := &reviews.Review{
		TargetID:    in.Target.ID,
		TargetKind:  in.Target.Kind,
		AuthorID:    in.Author.ID,
		IsAnonymous: in.IsAnonymous,
		Rating:      in.Rating,
		PhotoURL:    in.PhotoURL,
		IsVerified:  in.Author.Verified,
		Status:      reviews.StatusPending,
	}
	if comment := strings.TrimSpace(in.Comment); comment != "" {
		review.Comment = &comment
	}

	if err := m.store.Insert(ctx, review); err != nil {
		return nil, err
	}

	m.logger.Infow("review submitted",
		"review_id", review.ID,
		"target_kind", review.TargetKind,
		"target_id", review.TargetID,
		"anonymous", review.IsAnonymous,
	)
	return review, nil
}

// Transition moves a review to status. When approved-set membership changes
// the target aggregate is recomputed before Transition returns.
//
// If the status was written but the recompute failed, the updated review is
// returned together with an *AggregationError.
func (m *Manager) Transition(ctx context.Context, actor Actor, reviewID int64, status reviews.Status) (*reviews.Review, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := m.store.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}

	moderator := actor.ID
	updated, prev, err := m.store.UpdateStatus(ctx, reviewID, status, &moderator)
	if err != nil {
		return nil, err
	}
	// Carry the joined names from the read; the update does not return them.
	updated.AuthorName = current.AuthorName
	updated.TargetName = current.TargetName

	m.logger.Infow("review status changed",
		"review_id", reviewID,
		"from", prev,
		"to", status,
		"moderator_id", actor.ID,
		"moderator_role", actor.Role,
	)

	if !membershipChanged(prev, status) {
		return updated, nil
	}

	target := updated.Target()
	if _, err := m.aggregator.Recompute(ctx, target); err != nil {
		m.logger.Errorw("aggregate recompute failed after status change",
			"review_id", reviewID,
			"target_kind", target.Kind,
			"target_id", target.ID,
			"error", err.Error(),
		)
		return updated, &AggregationError{Target: target, Err: err}
	}
	return updated, nil
}

func membershipChanged(from, to reviews.Status) bool {
	return (from == reviews.StatusApproved) != (to == reviews.StatusApproved)
}

// IsStale reports whether err only signals a stale aggregate, meaning the
// status change itself went through.
func IsStale(err error) bool {
	var aggErr *AggregationError
	return errors.As(err, &aggErr)
}
