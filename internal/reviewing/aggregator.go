package reviewing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"discovery/internal/domain/reviews"
	"discovery/internal/domain/targets"

	"go.uber.org/zap"
)

// Aggregator rebuilds a target's rating aggregate from its approved reviews.
//
// It never applies deltas: every call derives the full value from the current
// approved set, so repeated or concurrent calls converge on the same result.
type Aggregator struct {
	reviews reviews.Store
	targets targets.Store
	logger  *zap.SugaredLogger
}

func NewAggregator(rs reviews.Store, ts targets.Store, logger *zap.SugaredLogger) *Aggregator {
	return &Aggregator{reviews: rs, targets: ts, logger: logger}
}

func (a *Aggregator) Recompute(ctx context.Context, target reviews.Target) (targets.Aggregate, error) {
	stats, err := a.reviews.ApprovedStats(ctx, target)
	if err != nil {
		return targets.Aggregate{}, err
	}

	agg := AggregateFromStats(stats)
	if err := a.targets.SaveAggregate(ctx, target, agg); err != nil {
		return targets.Aggregate{}, err
	}

	a.logger.Debugw("aggregate recomputed",
		"target_kind", target.Kind,
		"target_id", target.ID,
		"average_rating", agg.AverageRating,
		"total_reviews", agg.TotalReviews,
	)
	return agg, nil
}

// RecomputeAll rebuilds every target that has reviews or a stored aggregate.
// It keeps going past individual failures and returns them joined.
func (a *Aggregator) RecomputeAll(ctx context.Context) (int, error) {
	reviewed, err := a.reviews.ReviewedTargets(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reviewed targets: %w", err)
	}
	rated, err := a.targets.RatedTargets(ctx)
	if err != nil {
		return 0, fmt.Errorf("list rated targets: %w", err)
	}

	seen := make(map[reviews.Target]struct{}, len(reviewed)+len(rated))
	var errs []error
	done := 0
	for _, t := range append(reviewed, rated...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}

		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := a.Recompute(ctx, t); err != nil {
			if errors.Is(err, targets.ErrTargetNotFound) {
				a.logger.Warnw("skipping reviews of missing target", "target_kind", t.Kind, "target_id", t.ID)
				continue
			}
			errs = append(errs, &AggregationError{Target: t, Err: err})
			continue
		}
		done++
	}
	return done, errors.Join(errs...)
}

// AggregateFromStats returns the mean rating rounded to one decimal, or 0
// when there is nothing approved.
func AggregateFromStats(s reviews.Stats) targets.Aggregate {
	if s.Count <= 0 {
		return targets.Aggregate{}
	}
	avg := float64(s.RatingSum) / float64(s.Count)
	return targets.Aggregate{
		AverageRating: math.Round(avg*10) / 10,
		TotalReviews:  s.Count,
	}
}
