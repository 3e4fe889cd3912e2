package reviews

import (
	"context"
	"errors"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type TargetKind string

const (
	TargetPlace TargetKind = "place"
	TargetEvent TargetKind = "event"
)

func (k TargetKind) Valid() bool {
	return k == TargetPlace || k == TargetEvent
}

// Target identifies the place or event a review is attached to.
type Target struct {
	ID   int64      `json:"target_id"`
	Kind TargetKind `json:"target_kind"`
}

// Review is a single rating left on a place or event.
// Rating and CreatedAt never change once the row exists.
type Review struct {
	ID          int64      `json:"id"`
	TargetID    int64      `json:"target_id"`
	TargetKind  TargetKind `json:"target_kind"`
	AuthorID    *int64     `json:"author_id,omitempty"`
	IsAnonymous bool       `json:"is_anonymous"`
	Rating      int        `json:"rating"` // 1-5
	Comment     *string    `json:"comment,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	IsVerified  bool       `json:"is_verified"`
	Status      Status     `json:"status"`
	ModeratedBy *int64     `json:"moderated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Joined fields
	AuthorName *string `json:"author_name,omitempty"`
	TargetName *string `json:"target_name,omitempty"`
}

func (r *Review) Target() Target {
	return Target{ID: r.TargetID, Kind: r.TargetKind}
}

// Stats is the raw approved-set summary a target aggregate is derived from.
type Stats struct {
	Count     int
	RatingSum int64
}

// ModerationFilter drives the moderation queue listing.
// A nil Status means every status.
type ModerationFilter struct {
	Status *Status
	Search string
	Limit  int
	Offset int
}

// Cursor is an exclusive upper bound on (created_at, id) in descending order.
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// FeedFilter selects a feed slice. Exactly one of Target or AuthorID is set.
type FeedFilter struct {
	Target           *Target
	AuthorID         *int64
	ApprovedOnly     bool
	ExcludeAnonymous bool
	Cursor           *Cursor
	Limit            int
}

type Store interface {
	Insert(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, reviewID int64) (*Review, error)
	// UpdateStatus changes the status and returns the row together with the
	// status it held immediately before the update.
	UpdateStatus(ctx context.Context, reviewID int64, status Status, moderatorID *int64) (*Review, Status, error)
	ApprovedStats(ctx context.Context, target Target) (Stats, error)
	ListForModeration(ctx context.Context, filter ModerationFilter) ([]Review, int, error)
	Feed(ctx context.Context, filter FeedFilter) ([]Review, error)
	ReviewedTargets(ctx context.Context) ([]Target, error)
}
