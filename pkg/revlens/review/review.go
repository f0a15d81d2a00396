package review

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Raw is one provider record as fetched from a review source. Field names
// match the persisted snapshot format, so changing a tag breaks existing
// snapshot files.
type Raw struct {
	Review       string    `json:"review"`
	Content      string    `json:"content,omitempty"`
	Score        int       `json:"score"`
	ThumbsUp     int       `json:"thumbsUpCount"`
	At           time.Time `json:"at"`
	ReplyContent string    `json:"replyContent,omitempty"`
	RepliedAt    time.Time `json:"repliedAt,omitempty"`
}

// Text returns the review body, preferring the legacy "review" field over
// "content" (some sources populate one, some the other).
func (r Raw) Text() string {
	if strings.TrimSpace(r.Review) != "" {
		return r.Review
	}
	return r.Content
}

// Review is the canonical normalized record. Created once at normalization
// time; never mutated afterwards except to attach a detected version tag.
type Review struct {
	Text       string    `json:"text"`
	Date       time.Time `json:"date"` // day granularity
	Sentiment  float64   `json:"sentiment"`
	Rating     int       `json:"rating"` // 0 means the source has no rating
	Engagement int       `json:"engagement"`
	HasReply   bool      `json:"has_reply"`
	ReplyDate  time.Time `json:"reply_date,omitempty"`
	Version    string    `json:"version,omitempty"` // best-effort, pattern matched
}

// Scorer maps one text to a polarity in [-1, 1].
type Scorer interface {
	Score(text string) float64
}

var (
	urlPattern   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// CleanText strips markup, URLs and collapses whitespace. Raw bodies from
// store scrapes regularly carry escaped HTML fragments.
func CleanText(text string) string {
	if strings.ContainsAny(text, "<&") {
		text = stripHTML(text)
	}
	text = urlPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}

// Day truncates a timestamp to day granularity in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize converts raw provider records into canonical reviews. Sentiment
// is computed exactly once here. Records with an empty body after cleaning
// are dropped. Records without a timestamp are dated with now, truncated to
// the day, matching how daily snapshots are keyed.
func Normalize(raws []Raw, scorer Scorer, now time.Time) []Review {
	out := make([]Review, 0, len(raws))
	for _, raw := range raws {
		text := CleanText(raw.Text())
		if text == "" {
			continue
		}

		date := raw.At
		if date.IsZero() {
			date = now
		}

		r := Review{
			Text:       text,
			Date:       Day(date),
			Sentiment:  scorer.Score(text),
			Rating:     raw.Score,
			Engagement: max(raw.ThumbsUp, 0),
			HasReply:   strings.TrimSpace(raw.ReplyContent) != "",
		}
		if r.HasReply && !raw.RepliedAt.IsZero() {
			r.ReplyDate = Day(raw.RepliedAt)
		}
		out = append(out, r)
	}
	return out
}

// Texts returns the review bodies in original order.
func Texts(reviews []Review) []string {
	texts := make([]string, len(reviews))
	for i, r := range reviews {
		texts[i] = r.Text
	}
	return texts
}
