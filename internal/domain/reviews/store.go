package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// selectReview reads a review with its author and target names joined in.
const selectReview = `
	SELECT r.id, r.target_id, r.target_kind, r.author_id, r.is_anonymous,
	       r.rating, r.comment, r.photo_url, r.is_verified, r.status,
	       r.moderated_by, r.created_at, r.updated_at,
	       u.first_name,
	       COALESCE(p.name, e.name)
	FROM reviews r
	LEFT JOIN users u ON u.id = r.author_id
	LEFT JOIN places p ON r.target_kind = 'place' AND p.id = r.target_id
	LEFT JOIN events e ON r.target_kind = 'event' AND e.id = r.target_id
`

func scanReview(row pgx.Row, withNames bool) (*Review, error) {
	var review Review
	dest := []any{
		&review.ID,
		&review.TargetID,
		&review.TargetKind,
		&review.AuthorID,
		&review.IsAnonymous,
		&review.Rating,
		&review.Comment,
		&review.PhotoURL,
		&review.IsVerified,
		&review.Status,
		&review.ModeratedBy,
		&review.CreatedAt,
		&review.UpdatedAt,
	}
	if withNames {
		dest = append(dest, &review.AuthorName, &review.TargetName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *Repository) Insert(ctx context.Context, review *Review) error {
	query := `
        INSERT INTO reviews (
            target_id, target_kind, author_id, is_anonymous,
            rating, comment, photo_url, is_verified, status
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
        RETURNING id, status, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		review.TargetID,
		review.TargetKind,
		review.AuthorID,
		review.IsAnonymous,
		review.Rating,
		review.Comment,
		review.PhotoURL,
		review.IsVerified,
	).Scan(&review.ID, &review.Status, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, reviewID int64) (*Review, error) {
	review, err := scanReview(r.db.QueryRow(ctx, selectReview+` WHERE r.id = $1`, reviewID), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// UpdateStatus locks the row, captures its current status and writes the new
// one in a single statement, so the returned previous status is never stale.
func (r *Repository) UpdateStatus(ctx context.Context, reviewID int64, status Status, moderatorID *int64) (*Review, Status, error) {
	const q = `
		UPDATE reviews r
		SET status = $1,
		    moderated_by = $2,
		    updated_at = NOW()
		FROM (
			SELECT id, status FROM reviews WHERE id = $3 FOR UPDATE
		) prev
		WHERE r.id = prev.id
		RETURNING prev.status,
		          r.id, r.target_id, r.target_kind, r.author_id, r.is_anonymous,
		          r.rating, r.comment, r.photo_url, r.is_verified, r.status,
		          r.moderated_by, r.created_at, r.updated_at
	`
	var (
		prev   Status
		review Review
	)
	err := r.db.QueryRow(ctx, q, status, moderatorID, reviewID).Scan(
		&prev,
		&review.ID,
		&review.TargetID,
		&review.TargetKind,
		&review.AuthorID,
		&review.IsAnonymous,
		&review.Rating,
		&review.Comment,
		&review.PhotoURL,
		&review.IsVerified,
		&review.Status,
		&review.ModeratedBy,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrReviewNotFound
		}
		return nil, "", fmt.Errorf("update review status: %w", err)
	}
	return &review, prev, nil
}

func (r *Repository) ApprovedStats(ctx context.Context, target Target) (Stats, error) {
	query := `
        SELECT
            COUNT(id) AS total_reviews,
            COALESCE(SUM(rating), 0) AS rating_sum
        FROM reviews
        WHERE target_id = $1 AND target_kind = $2 AND status = 'approved'
    `
	var stats Stats
	if err := r.db.QueryRow(ctx, query, target.ID, target.Kind).Scan(&stats.Count, &stats.RatingSum); err != nil {
		return Stats{}, fmt.Errorf("approved review stats: %w", err)
	}
	return stats, nil
}

func (r *Repository) ListForModeration(ctx context.Context, filter ModerationFilter) ([]Review, int, error) {
	b := &pgx.Batch{}

	where := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.Status != nil {
		where = append(where, fmt.Sprintf("r.status = $%d", argPos))
		args = append(args, string(*filter.Status))
		argPos++
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		where = append(where, fmt.Sprintf(
			"(r.comment ILIKE $%d OR u.first_name ILIKE $%d OR p.name ILIKE $%d OR e.name ILIKE $%d)",
			argPos, argPos, argPos, argPos,
		))
		args = append(args, "%"+escapeLike(search)+"%")
		argPos++
	}

	whereSQL := " WHERE " + strings.Join(where, " AND ")

	countQ := `
	SELECT COUNT(*)
	FROM reviews r
	LEFT JOIN users u ON u.id = r.author_id
	LEFT JOIN places p ON r.target_kind = 'place' AND p.id = r.target_id
	LEFT JOIN events e ON r.target_kind = 'event' AND e.id = r.target_id
	` + whereSQL
	listQ := selectReview + whereSQL + fmt.Sprintf(`
	ORDER BY r.created_at DESC, r.id DESC
	LIMIT $%d OFFSET $%d`, argPos, argPos+1)

	b.Queue(countQ, args...)
	b.Queue(listQ, append(args, filter.Limit, filter.Offset)...)

	br := r.db.SendBatch(ctx, b)
	defer br.Close()

	var total int
	if err := br.QueryRow().Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count moderation reviews: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, 0, fmt.Errorf("list moderation reviews: %w", err)
	}
	defer rows.Close()

	out, err := collectReviews(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan moderation reviews: %w", err)
	}
	return out, total, nil
}

// Feed returns reviews strictly older than the cursor, newest first.
func (r *Repository) Feed(ctx context.Context, filter FeedFilter) ([]Review, error) {
	where := []string{}
	args := []any{}
	argPos := 1

	switch {
	case filter.Target != nil:
		where = append(where, fmt.Sprintf("r.target_id = $%d AND r.target_kind = $%d", argPos, argPos+1))
		args = append(args, filter.Target.ID, filter.Target.Kind)
		argPos += 2
	case filter.AuthorID != nil:
		where = append(where, fmt.Sprintf("r.author_id = $%d", argPos))
		args = append(args, *filter.AuthorID)
		argPos++
	default:
		return nil, errors.New("feed filter needs a target or an author")
	}

	if filter.ApprovedOnly {
		where = append(where, "r.status = 'approved'")
	}
	if filter.ExcludeAnonymous {
		where = append(where, "r.is_anonymous = FALSE")
	}
	if filter.Cursor != nil {
		where = append(where, fmt.Sprintf("(r.created_at, r.id) < ($%d, $%d)", argPos, argPos+1))
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ID)
		argPos += 2
	}

	query := selectReview + " WHERE " + strings.Join(where, " AND ") + fmt.Sprintf(`
	ORDER BY r.created_at DESC, r.id DESC
	LIMIT $%d`, argPos)
	args = append(args, filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query review feed: %w", err)
	}
	defer rows.Close()

	out, err := collectReviews(rows)
	if err != nil {
		return nil, fmt.Errorf("scan review feed: %w", err)
	}
	return out, nil
}

// ReviewedTargets lists every target that has at least one review.
func (r *Repository) ReviewedTargets(ctx context.Context) ([]Target, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT target_id, target_kind
		FROM reviews
		ORDER BY target_kind, target_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query reviewed targets: %w", err)
	}
	defer rows.Close()

	var out []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.ID, &t.Kind); err != nil {
			return nil, fmt.Errorf("scan reviewed target: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func collectReviews(rows pgx.Rows) ([]Review, error) {
	out := []Review{}
	for rows.Next() {
		review, err := scanReview(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
