package targets

import (
	"context"
	"errors"
	"fmt"

	"discovery/internal/domain/reviews"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

var tables = map[reviews.TargetKind]string{
	reviews.TargetPlace: "places",
	reviews.TargetEvent: "events",
}

func tableFor(kind reviews.TargetKind) (string, error) {
	table, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("unknown target kind %q", kind)
	}
	return pq.QuoteIdentifier(table), nil
}

func (r *Repository) GetAggregate(ctx context.Context, target reviews.Target) (Aggregate, error) {
	table, err := tableFor(target.Kind)
	if err != nil {
		return Aggregate{}, err
	}

	query := fmt.Sprintf(`SELECT average_rating, total_reviews FROM %s WHERE id = $1`, table)

	var agg Aggregate
	if err := r.db.QueryRow(ctx, query, target.ID).Scan(&agg.AverageRating, &agg.TotalReviews); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Aggregate{}, ErrTargetNotFound
		}
		return Aggregate{}, fmt.Errorf("get %s aggregate: %w", target.Kind, err)
	}
	return agg, nil
}

// SaveAggregate overwrites both aggregate fields unconditionally.
func (r *Repository) SaveAggregate(ctx context.Context, target reviews.Target, agg Aggregate) error {
	table, err := tableFor(target.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET average_rating = $1,
		    total_reviews = $2
		WHERE id = $3
	`, table)

	ct, err := r.db.Exec(ctx, query, agg.AverageRating, agg.TotalReviews, target.ID)
	if err != nil {
		return fmt.Errorf("save %s aggregate: %w", target.Kind, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrTargetNotFound
	}
	return nil
}

func (r *Repository) RatedTargets(ctx context.Context) ([]reviews.Target, error) {
	var out []reviews.Target
	for _, kind := range []reviews.TargetKind{reviews.TargetPlace, reviews.TargetEvent} {
		table, err := tableFor(kind)
		if err != nil {
			return nil, err
		}

		rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE total_reviews > 0 ORDER BY id`, table))
		if err != nil {
			return nil, fmt.Errorf("query rated %s targets: %w", kind, err)
		}

		ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return nil, fmt.Errorf("scan rated %s targets: %w", kind, err)
		}
		for _, id := range ids {
			out = append(out, reviews.Target{ID: id, Kind: kind})
		}
	}
	return out, nil
}
