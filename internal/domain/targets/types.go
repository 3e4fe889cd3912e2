package targets

import (
	"context"
	"errors"

	"discovery/internal/domain/reviews"
)

var ErrTargetNotFound = errors.New("target not found")

// Aggregate is the denormalized rating summary kept on a place or event row.
// It is always rebuilt from the approved reviews and never edited in place.
type Aggregate struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

type Store interface {
	GetAggregate(ctx context.Context, target reviews.Target) (Aggregate, error)
	SaveAggregate(ctx context.Context, target reviews.Target, agg Aggregate) error
	// RatedTargets lists targets whose stored aggregate is not empty.
	RatedTargets(ctx context.Context) ([]reviews.Target, error)
}
