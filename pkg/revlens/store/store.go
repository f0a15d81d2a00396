// Package store persists normalized reviews and recorded comparison runs.
package store

import (
	"context"
	"time"

	"github.com/revlens/revlens/pkg/revlens/review"
)

// Store is the interface for archiving analysis inputs and outputs.
type Store interface {
	Close() error

	// Reviews
	UpsertReviews(ctx context.Context, appID string, reviews []review.Review) error
	GetReviews(ctx context.Context, appID string) ([]review.Review, error)
	GetReviewsByDateRange(ctx context.Context, appID string, start, end time.Time) ([]review.Review, error)
	CountReviews(ctx context.Context, appID string) (int64, error)

	// Comparison runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context, appID string, limit int) ([]Run, error)
}

// Run kinds.
const (
	RunKindPeriod     = "period"
	RunKindVersion    = "version"
	RunKindCompetitor = "competitor"
)

// Run is one recorded comparison: which two slices were compared, the full
// result payload as JSON, and the narrative if one was generated.
type Run struct {
	ID         string // ULID, assigned by the caller
	AppID      string
	Kind       string
	SideA      string
	SideB      string
	CreatedAt  time.Time
	ResultJSON string
	Narrative  string
}
