// Package period slices a review population into comparable
// sub-populations: by date range, by detected app version, or by source app.
package period

import (
	"fmt"
	"time"

	"github.com/revlens/revlens/pkg/revlens/review"
)

// Period is a named, materialized slice of a review population. It owns no
// reviews; dropping a Period never mutates the underlying set.
type Period struct {
	Name    string
	Reviews []review.Review
}

// Empty reports whether the slice matched no reviews. Callers must treat an
// empty period as a recoverable condition and skip comparison for it.
func (p Period) Empty() bool {
	return len(p.Reviews) == 0
}

// Texts returns the period's review bodies in original order.
func (p Period) Texts() []string {
	return review.Texts(p.Reviews)
}

// ByDateRange filters reviews whose day-granularity date falls inside
// [start, end], both inclusive. It is a pure filter: overlapping ranges are
// the caller's business.
func ByDateRange(reviews []review.Review, start, end time.Time) Period {
	start = review.Day(start)
	end = review.Day(end)

	var matched []review.Review
	for _, r := range reviews {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		matched = append(matched, r)
	}
	return Period{
		Name:    fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
		Reviews: matched,
	}
}

// BySource names a whole population after its source app.
func BySource(appID string, reviews []review.Review) Period {
	return Period{Name: appID, Reviews: reviews}
}

// TrailingSplit slices the population into the current trailing window of
// periodDays ending at the newest review, and the window of the same length
// directly before it. The earlier period's end is exclusive so a review sits
// in exactly one side.
func TrailingSplit(reviews []review.Review, periodDays int) (current, previous Period) {
	if len(reviews) == 0 || periodDays <= 0 {
		return Period{Name: "current"}, Period{Name: "previous"}
	}

	var newest time.Time
	for _, r := range reviews {
		if r.Date.After(newest) {
			newest = r.Date
		}
	}
	currentStart := newest.AddDate(0, 0, -periodDays)
	previousStart := currentStart.AddDate(0, 0, -periodDays)

	var cur, prev []review.Review
	for _, r := range reviews {
		switch {
		case !r.Date.Before(currentStart):
			cur = append(cur, r)
		case !r.Date.Before(previousStart):
			prev = append(prev, r)
		}
	}
	return Period{Name: "current", Reviews: cur}, Period{Name: "previous", Reviews: prev}
}
