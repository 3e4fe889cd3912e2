package reviewing

import (
	"errors"
	"fmt"

	"discovery/internal/domain/reviews"
)

var (
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong    = fmt.Errorf("comment must be at most %d characters", MaxCommentLength)
	ErrInvalidTarget     = errors.New("invalid review target")
	ErrInvalidStatus     = errors.New("invalid review status")
	ErrInvalidCursor     = errors.New("invalid feed cursor")
	ErrBatchTooLarge     = fmt.Errorf("bulk moderation is limited to %d reviews", MaxBulkSize)
	ErrAggregationFailed = errors.New("target aggregate could not be updated")

	// ErrReviewNotFound is re-exported so callers only import this package.
	ErrReviewNotFound = reviews.ErrReviewNotFound
)

// AggregationError reports that a status change was stored but the target
// aggregate was not. The next recompute for the target repairs it.
type AggregationError struct {
	Target reviews.Target
	Err    error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("recompute %s %d: %v", e.Target.Kind, e.Target.ID, e.Err)
}

func (e *AggregationError) Unwrap() []error {
	return []error{ErrAggregationFailed, e.Err}
}
