package review

import (
	"math"
	"testing"
)

func TestSummarizeEmptyPopulation(t *testing.T) {
	s := Summarize(nil)

	if s.ReviewCount != 0 {
		t.Errorf("ReviewCount = %d, want 0", s.ReviewCount)
	}
	// Every average must be a plain zero, never NaN.
	for _, v := range []float64{s.AverageRating, s.AverageSentiment, s.AverageEngagement, s.ReplyRate} {
		if math.IsNaN(v) {
			t.Fatal("empty population produced NaN")
		}
		if v != 0 {
			t.Errorf("empty population average = %v, want 0", v)
		}
	}
}

func TestSummarizeAverages(t *testing.T) {
	reviews := []Review{
		{Text: "a", Sentiment: 0.5, Rating: 5, Engagement: 10, HasReply: true},
		{Text: "b", Sentiment: -0.5, Rating: 1, Engagement: 0},
		{Text: "c", Sentiment: 0.0, Rating: 3, Engagement: 2},
		{Text: "d", Sentiment: 0.4, Rating: 0, Engagement: 4}, // unrated
	}

	s := Summarize(reviews)
	if s.ReviewCount != 4 {
		t.Errorf("ReviewCount = %d, want 4", s.ReviewCount)
	}
	// Rating averages over the 3 rated reviews only.
	if got, want := s.AverageRating, 3.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("AverageRating = %v, want %v", got, want)
	}
	if got, want := s.AverageSentiment, 0.1; math.Abs(got-want) > 1e-9 {
		t.Errorf("AverageSentiment = %v, want %v", got, want)
	}
	if got, want := s.AverageEngagement, 4.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("AverageEngagement = %v, want %v", got, want)
	}
	if got, want := s.ReplyRate, 0.25; math.Abs(got-want) > 1e-9 {
		t.Errorf("ReplyRate = %v, want %v", got, want)
	}
	if s.MostEngaged != "a" {
		t.Errorf("MostEngaged = %q, want the highest thumbs review", s.MostEngaged)
	}
}

func TestSummarizeAllUnrated(t *testing.T) {
	reviews := []Review{{Text: "a"}, {Text: "b"}}
	s := Summarize(reviews)

	if s.AverageRating != 0 || math.IsNaN(s.AverageRating) {
		t.Errorf("AverageRating = %v, want 0 when no ratings exist", s.AverageRating)
	}
}

func TestMetricAccessorCoversAllNames(t *testing.T) {
	s := Stats{
		ReviewCount:       7,
		AverageRating:     4.2,
		AverageSentiment:  0.3,
		AverageEngagement: 1.5,
		ReplyRate:         0.6,
	}

	want := map[string]float64{
		MetricReviewCount:       7,
		MetricAverageRating:     4.2,
		MetricAverageSentiment:  0.3,
		MetricAverageEngagement: 1.5,
		MetricReplyRate:         0.6,
	}
	for _, name := range MetricNames {
		if got := s.Metric(name); got != want[name] {
			t.Errorf("Metric(%q) = %v, want %v", name, got, want[name])
		}
	}
	if s.Metric("bogus") != 0 {
		t.Error("unknown metric name should return 0")
	}
}

func TestRatingDistributionSortedAndFiltered(t *testing.T) {
	reviews := []Review{
		{Rating: 5}, {Rating: 1}, {Rating: 5}, {Rating: 0}, {Rating: 3},
	}

	dist := RatingDistribution(reviews)
	if len(dist) != 3 {
		t.Fatalf("got %d buckets, want 3", len(dist))
	}
	if dist[0].Rating != 1 || dist[1].Rating != 3 || dist[2].Rating != 5 {
		t.Errorf("buckets not sorted ascending: %+v", dist)
	}
	if dist[2].Count != 2 {
		t.Errorf("rating 5 count = %d, want 2", dist[2].Count)
	}
}

func TestSentimentByRating(t *testing.T) {
	reviews := []Review{
		{Rating: 1, Sentiment: -0.8},
		{Rating: 1, Sentiment: -0.4},
		{Rating: 5, Sentiment: 0.9},
	}

	got := SentimentByRating(reviews)
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	if math.Abs(got[0].Sentiment-(-0.6)) > 1e-9 {
		t.Errorf("rating 1 sentiment = %v, want -0.6", got[0].Sentiment)
	}
	if math.Abs(got[1].Sentiment-0.9) > 1e-9 {
		t.Errorf("rating 5 sentiment = %v, want 0.9", got[1].Sentiment)
	}
}
