package reviewing

import (
	"context"
	"strings"

	"discovery/internal/domain/reviews"
	"discovery/internal/params"

	"go.uber.org/zap"
)

const (
	MaxBulkSize = 100

	// StatusAll disables the status filter of the moderation queue.
	StatusAll = "all"
)

type ModerationFilter struct {
	// Status is pending, approved, rejected or all. Empty means all.
	Status string
	Search string
	Page   int
	Limit  int
}

// BulkResult reports every id of a bulk call. Ids in StaleAggregates had
// their status written and are also listed in Succeeded.
type BulkResult struct {
	Succeeded       []int64         `json:"succeeded"`
	Failed          map[int64]error `json:"-"`
	StaleAggregates map[int64]error `json:"-"`
}

// Moderation serves the moderator queue on top of the lifecycle manager.
type Moderation struct {
	store   reviews.Store
	manager *Manager
	logger  *zap.SugaredLogger
}

func NewModeration(store reviews.Store, manager *Manager, logger *zap.SugaredLogger) *Moderation {
	return &Moderation{store: store, manager: manager, logger: logger}
}

// List returns one page of the queue, newest first.
func (m *Moderation) List(ctx context.Context, filter ModerationFilter) ([]reviews.Review, params.Pagination, error) {
	p := params.NewPagination(filter.Page, filter.Limit)

	storeFilter := reviews.ModerationFilter{
		Search: strings.TrimSpace(filter.Search),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	switch s := strings.ToLower(strings.TrimSpace(filter.Status)); s {
	case "", StatusAll:
	default:
		status := reviews.Status(s)
		if !status.Valid() {
			return nil, p, ErrInvalidStatus
		}
		storeFilter.Status = &status
	}

	out, total, err := m.store.ListForModeration(ctx, storeFilter)
	if err != nil {
		return nil, p, err
	}
	p.ComputeMeta(total)
	return out, p, nil
}

// Transition applies a single moderator decision.
func (m *Moderation) Transition(ctx context.Context, actor Actor, reviewID int64, status reviews.Status) (*reviews.Review, error) {
	return m.manager.Transition(ctx, actor, reviewID, status)
}

// BulkTransition applies status to each id on its own. A failure on one id
// never blocks the others, and there is no batch-wide rollback.
func (m *Moderation) BulkTransition(ctx context.Context, actor Actor, ids []int64, status reviews.Status) (BulkResult, error) {
	if !status.Valid() {
		return BulkResult{}, ErrInvalidStatus
	}

	unique := dedupe(ids)
	if len(unique) > MaxBulkSize {
		return BulkResult{}, ErrBatchTooLarge
	}

	res := BulkResult{
		Succeeded:       make([]int64, 0, len(unique)),
		Failed:          make(map[int64]error),
		StaleAggregates: make(map[int64]error),
	}
	for _, id := range unique {
		_, err := m.manager.Transition(ctx, actor, id, status)
		switch {
		case err == nil:
			res.Succeeded = append(res.Succeeded, id)
		case IsStale(err):
			res.Succeeded = append(res.Succeeded, id)
			res.StaleAggregates[id] = err
		default:
			res.Failed[id] = err
		}
	}

	m.logger.Infow("bulk moderation applied",
		"moderator_id", actor.ID,
		"status", status,
		"requested", len(unique),
		"succeeded", len(res.Succeeded),
		"failed", len(res.Failed),
		"stale_aggregates", len(res.StaleAggregates),
	)
	return res, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
