package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/revlens/revlens/pkg/revlens/review"
	"github.com/revlens/revlens/pkg/revlens/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	reviews map[string][]review.Review // app id → reviews
	keys    map[string]map[reviewKey]int
	runs    map[string]store.Run
}

type reviewKey struct {
	date time.Time
	text string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		reviews: make(map[string][]review.Review),
		keys:    make(map[string]map[reviewKey]int),
		runs:    make(map[string]store.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertReviews inserts or updates reviews, keyed by (date, text) per app.
func (s *Store) UpsertReviews(ctx context.Context, appID string, reviews []review.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keys[appID] == nil {
		s.keys[appID] = make(map[reviewKey]int)
	}
	for _, r := range reviews {
		key := reviewKey{date: r.Date, text: r.Text}
		if idx, ok := s.keys[appID][key]; ok {
			s.reviews[appID][idx] = r
			continue
		}
		s.keys[appID][key] = len(s.reviews[appID])
		s.reviews[appID] = append(s.reviews[appID], r)
	}
	return nil
}

// GetReviews returns all reviews for an app ordered by date.
func (s *Store) GetReviews(ctx context.Context, appID string) ([]review.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]review.Review, len(s.reviews[appID]))
	copy(out, s.reviews[appID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// GetReviewsByDateRange filters inclusive on day-granularity dates.
func (s *Store) GetReviewsByDateRange(ctx context.Context, appID string, start, end time.Time) ([]review.Review, error) {
	all, err := s.GetReviews(ctx, appID)
	if err != nil {
		return nil, err
	}

	start = review.Day(start)
	end = review.Day(end)
	var out []review.Review
	for _, r := range all {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// CountReviews returns the stored review count for an app.
func (s *Store) CountReviews(ctx context.Context, appID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.reviews[appID])), nil
}

// SaveRun stores a comparison run by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	return r, ok, nil
}

// ListRuns returns an app's runs, newest first.
func (s *Store) ListRuns(ctx context.Context, appID string, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Run
	for _, r := range s.runs {
		if r.AppID == appID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
