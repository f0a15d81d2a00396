package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/revlens/revlens/pkg/revlens/review"
	"github.com/revlens/revlens/pkg/revlens/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpsertDeduplicates(t *testing.T) {
	s := New()
	ctx := context.Background()

	reviews := []review.Review{
		{Text: "great", Date: day(2026, 8, 1), Sentiment: 0.5},
		{Text: "bad", Date: day(2026, 8, 2), Sentiment: -0.5},
	}
	if err := s.UpsertReviews(ctx, "app", reviews); err != nil {
		t.Fatal(err)
	}
	// Second upsert of the same (date, text) pairs updates in place.
	reviews[0].Sentiment = 0.9
	if err := s.UpsertReviews(ctx, "app", reviews); err != nil {
		t.Fatal(err)
	}

	count, err := s.CountReviews(ctx, "app")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 after idempotent upsert", count)
	}

	got, err := s.GetReviews(ctx, "app")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Sentiment != 0.9 {
		t.Errorf("sentiment = %v, want updated value", got[0].Sentiment)
	}
}

func TestGetReviewsOrderedByDate(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertReviews(ctx, "app", []review.Review{
		{Text: "late", Date: day(2026, 8, 20)},
		{Text: "early", Date: day(2026, 8, 1)},
		{Text: "mid", Date: day(2026, 8, 10)},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetReviews(ctx, "app")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Text != "early" || got[2].Text != "late" {
		t.Errorf("order: %v, %v, %v", got[0].Text, got[1].Text, got[2].Text)
	}
}

func TestGetReviewsByDateRangeInclusive(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertReviews(ctx, "app", []review.Review{
		{Text: "before", Date: day(2026, 7, 31)},
		{Text: "start", Date: day(2026, 8, 1)},
		{Text: "end", Date: day(2026, 8, 10)},
		{Text: "after", Date: day(2026, 8, 11)},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetReviewsByDateRange(ctx, "app", day(2026, 8, 1), day(2026, 8, 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reviews, want 2", len(got))
	}
	if got[0].Text != "start" || got[1].Text != "end" {
		t.Errorf("range result: %+v", got)
	}
}

func TestReviewsIsolatedPerApp(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertReviews(ctx, "app-a", []review.Review{{Text: "a", Date: day(2026, 8, 1)}}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertReviews(ctx, "app-b", []review.Review{{Text: "b", Date: day(2026, 8, 1)}}); err != nil {
		t.Fatal(err)
	}

	count, _ := s.CountReviews(ctx, "app-a")
	if count != 1 {
		t.Errorf("app-a count = %d, want 1", count)
	}
}

func TestRunRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	run := store.Run{
		ID:         "01J0000000000000000000TEST",
		AppID:      "app",
		Kind:       store.RunKindPeriod,
		SideA:      "2026-08-01 to 2026-08-07",
		SideB:      "2026-08-08 to 2026-08-14",
		CreatedAt:  time.Now().UTC(),
		ResultJSON: `{"sentiment":{"a":0.1,"b":0.2,"delta":0.1}}`,
		Narrative:  "things improved",
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.GetRun(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("GetRun: ok=%v err=%v", ok, err)
	}
	if got.Narrative != run.Narrative || got.ResultJSON != run.ResultJSON {
		t.Errorf("GetRun = %+v", got)
	}

	if _, ok, _ := s.GetRun(ctx, "missing"); ok {
		t.Error("missing run reported found")
	}
}

func TestListRunsNewestFirstWithLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := store.Run{
			ID:        string(rune('a' + i)),
			AppID:     "app",
			Kind:      store.RunKindVersion,
			CreatedAt: base.AddDate(0, 0, i),
		}
		if err := s.SaveRun(ctx, run); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(ctx, "app", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].ID != "e" || runs[2].ID != "c" {
		t.Errorf("runs not newest first: %v, %v, %v", runs[0].ID, runs[1].ID, runs[2].ID)
	}
}
