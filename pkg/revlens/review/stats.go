package review

import "sort"

// Metric names emitted by Stats. The comparison engine iterates this list so
// both sides of a comparison always carry the same metric keys.
const (
	MetricReviewCount       = "review_count"
	MetricAverageRating     = "average_rating"
	MetricAverageSentiment  = "average_sentiment"
	MetricAverageEngagement = "average_engagement"
	MetricReplyRate         = "reply_rate"
)

// MetricNames lists the population metrics in display order.
var MetricNames = []string{
	MetricReviewCount,
	MetricAverageRating,
	MetricAverageSentiment,
	MetricAverageEngagement,
	MetricReplyRate,
}

// Stats summarizes one review population.
type Stats struct {
	ReviewCount       int     `json:"review_count"`
	AverageRating     float64 `json:"average_rating"`
	AverageSentiment  float64 `json:"average_sentiment"`
	AverageEngagement float64 `json:"average_engagement"`
	ReplyRate         float64 `json:"reply_rate"`
	MostEngaged       string  `json:"most_engaged_review,omitempty"`
}

// Metric returns a stat by metric name. Unknown names return 0.
func (s Stats) Metric(name string) float64 {
	switch name {
	case MetricReviewCount:
		return float64(s.ReviewCount)
	case MetricAverageRating:
		return s.AverageRating
	case MetricAverageSentiment:
		return s.AverageSentiment
	case MetricAverageEngagement:
		return s.AverageEngagement
	case MetricReplyRate:
		return s.ReplyRate
	}
	return 0
}

// Summarize computes population statistics. Averages over optional columns
// skip absent values instead of zero-filling them: a review without a star
// rating contributes nothing to average_rating.
func Summarize(reviews []Review) Stats {
	s := Stats{ReviewCount: len(reviews)}
	if len(reviews) == 0 {
		return s
	}

	var ratingSum, sentimentSum, engagementSum float64
	rated := 0
	replied := 0
	best := 0
	for i, r := range reviews {
		sentimentSum += r.Sentiment
		engagementSum += float64(r.Engagement)
		if r.Rating > 0 {
			ratingSum += float64(r.Rating)
			rated++
		}
		if r.HasReply {
			replied++
		}
		if r.Engagement > reviews[best].Engagement {
			best = i
		}
	}

	n := float64(len(reviews))
	s.AverageSentiment = sentimentSum / n
	s.AverageEngagement = engagementSum / n
	s.ReplyRate = float64(replied) / n
	if rated > 0 {
		s.AverageRating = ratingSum / float64(rated)
	}
	s.MostEngaged = reviews[best].Text
	return s
}

// RatingDistribution counts reviews per star rating, ascending by rating.
// Reviews without a rating are excluded.
type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

func RatingDistribution(reviews []Review) []RatingCount {
	counts := make(map[int]int)
	for _, r := range reviews {
		if r.Rating > 0 {
			counts[r.Rating]++
		}
	}

	out := make([]RatingCount, 0, len(counts))
	for rating, count := range counts {
		out = append(out, RatingCount{Rating: rating, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	return out
}

// SentimentByRating averages sentiment per star rating, ascending by rating.
type RatingSentiment struct {
	Rating    int     `json:"rating"`
	Sentiment float64 `json:"sentiment"`
}

func SentimentByRating(reviews []Review) []RatingSentiment {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range reviews {
		if r.Rating > 0 {
			sums[r.Rating] += r.Sentiment
			counts[r.Rating]++
		}
	}

	out := make([]RatingSentiment, 0, len(sums))
	for rating, sum := range sums {
		out = append(out, RatingSentiment{Rating: rating, Sentiment: sum / float64(counts[rating])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	return out
}
