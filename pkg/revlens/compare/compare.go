// Package compare computes aligned difference metrics between two review
// populations. Every delta is consistently side B minus side A, across
// sentiment, metrics, topics, and themes.
package compare

import (
	"fmt"

	"github.com/revlens/revlens/pkg/revlens/internalerr"
	"github.com/revlens/revlens/pkg/revlens/review"
	"github.com/revlens/revlens/pkg/revlens/themes"
	"github.com/revlens/revlens/pkg/revlens/topics"
)

// Delta holds one aligned measurement: the value on each side and their
// signed difference B minus A.
type Delta struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	Delta float64 `json:"delta"`
}

func delta(a, b float64) Delta {
	return Delta{A: a, B: b, Delta: b - a}
}

// Result is the full comparison payload. Topic and theme key sets are the
// union of keys discovered on either side: a topic present in only one
// population appears with 0 on the other side rather than vanishing.
type Result struct {
	Sentiment Delta            `json:"sentiment"`
	Metrics   map[string]Delta `json:"metrics"`
	Topics    map[string]Delta `json:"topics"`
	Themes    map[string]Delta `json:"themes"`
}

// Engine computes comparison payloads. Topic extraction runs independently
// per side without a shared vocabulary; label wording may differ between
// sides for near-identical content, which is inherent to discovered topics.
type Engine struct {
	Extractor *topics.Extractor
	Tagger    *themes.Tagger

	// TopicCount is the cluster count per extractor run (0 = default).
	TopicCount int
}

// NewEngine creates an engine with the default topic count.
func NewEngine(extractor *topics.Extractor, tagger *themes.Tagger) *Engine {
	return &Engine{Extractor: extractor, Tagger: tagger}
}

// Compare produces the full payload for populations A and B. Either side
// being empty is an explicit ErrInsufficientData; a mean over zero reviews
// must never silently turn into NaN. Extractor and tagger failures surface
// as wrapped errors instead of aborting the process.
func (e *Engine) Compare(a, b []review.Review) (Result, error) {
	if len(a) == 0 || len(b) == 0 {
		return Result{}, fmt.Errorf("%w: population sizes a=%d b=%d",
			internalerr.ErrInsufficientData, len(a), len(b))
	}

	statsA := review.Summarize(a)
	statsB := review.Summarize(b)

	result := Result{
		Sentiment: delta(statsA.AverageSentiment, statsB.AverageSentiment),
		Metrics:   make(map[string]Delta, len(review.MetricNames)),
	}
	for _, name := range review.MetricNames {
		result.Metrics[name] = delta(statsA.Metric(name), statsB.Metric(name))
	}

	topicDeltas, err := e.compareTopics(review.Texts(a), review.Texts(b))
	if err != nil {
		return Result{}, err
	}
	result.Topics = topicDeltas

	result.Themes = e.compareThemes(review.Texts(a), review.Texts(b))
	return result, nil
}

// compareTopics runs the extractor independently on each side and aligns
// the discovered labels over their union.
func (e *Engine) compareTopics(textsA, textsB []string) (map[string]Delta, error) {
	topicsA, err := e.Extractor.Extract(textsA, e.TopicCount)
	if err != nil {
		return nil, fmt.Errorf("topics side a: %w", err)
	}
	topicsB, err := e.Extractor.Extract(textsB, e.TopicCount)
	if err != nil {
		return nil, fmt.Errorf("topics side b: %w", err)
	}

	freqA := make(map[string]float64, len(topicsA))
	for _, t := range topicsA {
		freqA[t.Label] = t.Frequency
	}
	freqB := make(map[string]float64, len(topicsB))
	for _, t := range topicsB {
		freqB[t.Label] = t.Frequency
	}

	out := make(map[string]Delta, len(freqA)+len(freqB))
	for label, fa := range freqA {
		out[label] = delta(fa, freqB[label])
	}
	for label, fb := range freqB {
		if _, done := out[label]; !done {
			out[label] = delta(0, fb)
		}
	}
	return out, nil
}

// compareThemes scores both sides against the shared fixed vocabulary, so
// this axis is directly comparable, unlike topics.
func (e *Engine) compareThemes(textsA, textsB []string) map[string]Delta {
	avgA := e.Tagger.Averages(textsA)
	avgB := e.Tagger.Averages(textsB)

	out := make(map[string]Delta, len(avgA))
	for theme, a := range avgA {
		out[theme] = delta(a, avgB[theme])
	}
	for theme, b := range avgB {
		if _, done := out[theme]; !done {
			out[theme] = delta(0, b)
		}
	}
	return out
}
