package narrative

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/revlens/revlens/pkg/revlens/compare"
)

func TestTruncateTextShortUnchanged(t *testing.T) {
	b := NewPromptBuilder()

	text := "short review"
	if got := b.TruncateText(text); got != text {
		t.Errorf("TruncateText = %q, want unchanged", got)
	}
}

func TestTruncateTextExactLimit(t *testing.T) {
	b := NewPromptBuilder()

	text := strings.Repeat("x", DefaultMaxReviewChars)
	if got := b.TruncateText(text); got != text {
		t.Error("text at exactly the limit should not be truncated")
	}
}

func TestTruncateTextLongGetsEllipsis(t *testing.T) {
	b := NewPromptBuilder()

	text := strings.Repeat("x", 1500)
	got := b.TruncateText(text)
	if !strings.HasSuffix(got, ellipsis) {
		t.Error("truncated text should end with ellipsis marker")
	}
	if body := strings.TrimSuffix(got, ellipsis); len(body) != DefaultMaxReviewChars {
		t.Errorf("kept %d chars, want exactly %d", len(body), DefaultMaxReviewChars)
	}
}

func TestTruncateTextCountsCharacters(t *testing.T) {
	b := NewPromptBuilder()

	// Two-byte runes: a byte-sliced cut would keep only half the allowance.
	text := strings.Repeat("é", 1500)
	got := b.TruncateText(text)
	if !strings.HasSuffix(got, ellipsis) {
		t.Fatal("truncated text should end with ellipsis marker")
	}
	body := strings.TrimSuffix(got, ellipsis)
	if n := utf8.RuneCountInString(body); n != DefaultMaxReviewChars {
		t.Errorf("kept %d characters, want exactly %d", n, DefaultMaxReviewChars)
	}
}

func TestTruncateTextMultiByteStaysValidUTF8(t *testing.T) {
	b := NewPromptBuilder()
	b.MaxReviewChars = 100

	got := b.TruncateText(strings.Repeat("世", 500))
	if !utf8.ValidString(got) {
		t.Error("truncation produced invalid UTF-8")
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, ellipsis)); n != 100 {
		t.Errorf("kept %d characters, want 100", n)
	}
}

func TestTruncateTextDisabled(t *testing.T) {
	b := NewPromptBuilder()
	b.MaxReviewChars = 0

	text := strings.Repeat("x", 5000)
	if got := b.TruncateText(text); got != text {
		t.Error("zero limit should disable truncation")
	}
}

func TestJoinTextsSeparator(t *testing.T) {
	b := NewPromptBuilder()

	got := b.JoinTexts([]string{"one", "two", "three"})
	if got != "one\n\ntwo\n\nthree" {
		t.Errorf("JoinTexts = %q", got)
	}
}

func TestJoinTextsDropsWholeTexts(t *testing.T) {
	b := NewPromptBuilder()
	b.MaxPromptChars = 25

	// "aaaaaaaaaa" (10) + sep (2) + "bbbbbbbbbb" (10) = 22 fits;
	// adding sep + 10 more would reach 34 > 25, so the third is dropped whole.
	got := b.JoinTexts([]string{
		strings.Repeat("a", 10),
		strings.Repeat("b", 10),
		strings.Repeat("c", 10),
	})
	if strings.Contains(got, "c") {
		t.Errorf("third text should be dropped entirely, got %q", got)
	}
	if len(got) != 22 {
		t.Errorf("len = %d, want 22", len(got))
	}
}

func TestJoinTextsBudgetCountsSeparators(t *testing.T) {
	b := NewPromptBuilder()
	b.MaxPromptChars = 21

	// 10 + 2 + 10 = 22 > 21: second text must not fit.
	got := b.JoinTexts([]string{strings.Repeat("a", 10), strings.Repeat("b", 10)})
	if got != strings.Repeat("a", 10) {
		t.Errorf("JoinTexts = %q, want first text only", got)
	}
}

func TestJoinTextsBudgetCountsCharacters(t *testing.T) {
	b := NewPromptBuilder()
	b.MaxPromptChars = 21

	// Same 10 + 2 + 10 = 22 > 21 arithmetic as the ASCII case, even though
	// each text is 30 bytes long.
	got := b.JoinTexts([]string{strings.Repeat("世", 10), strings.Repeat("界", 10)})
	if got != strings.Repeat("世", 10) {
		t.Errorf("JoinTexts = %q, want first text only", got)
	}
}

func TestJoinTextsNeverExceedsBudget(t *testing.T) {
	b := NewPromptBuilder()
	b.MaxReviewChars = 1000
	b.MaxPromptChars = 20000

	texts := make([]string, 50)
	for i := range texts {
		texts[i] = strings.Repeat("r", 1500)
	}
	got := b.JoinTexts(texts)
	if n := utf8.RuneCountInString(got); n > b.MaxPromptChars {
		t.Errorf("joined length %d exceeds budget %d", n, b.MaxPromptChars)
	}
	// Budget permits 19 full truncated entries; the 20th would cross.
	if n := strings.Count(got, ellipsis); n != 19 {
		t.Errorf("joined %d truncated texts, want 19", n)
	}
}

func TestBuildSummaryPromptContainsReviews(t *testing.T) {
	b := NewPromptBuilder()

	prompt := b.BuildSummaryPrompt([]string{"first review", "second review"}, "")
	if !strings.Contains(prompt, "first review") || !strings.Contains(prompt, "second review") {
		t.Error("prompt missing review texts")
	}
	if !strings.Contains(prompt, "Overall sentiment") {
		t.Error("prompt missing default instructions")
	}
}

func TestBuildSummaryPromptCustomInstructions(t *testing.T) {
	b := NewPromptBuilder()

	prompt := b.BuildSummaryPrompt([]string{"text"}, "Focus only on pricing complaints.")
	if !strings.HasPrefix(prompt, "Focus only on pricing complaints.") {
		t.Errorf("custom instructions not used: %q", prompt[:50])
	}
}

func TestBuildAppComparisonPromptBothSides(t *testing.T) {
	b := NewPromptBuilder()

	prompt := b.BuildAppComparisonPrompt("AppA", "AppB",
		[]string{"alpha review"}, []string{"beta review"})
	for _, want := range []string{"AppA Reviews:", "AppB Reviews:", "alpha review", "beta review"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildComparisonPromptMetricsAlwaysPresent(t *testing.T) {
	b := NewPromptBuilder()

	result := resultWith(0.01, 0.01) // all shifts below thresholds
	prompt := b.BuildComparisonPrompt("June", "July", result)

	if !strings.Contains(prompt, "- sentiment:") {
		t.Error("sentiment line missing")
	}
	if !strings.Contains(prompt, "- review_count:") {
		t.Error("metric lines missing")
	}
	if strings.Contains(prompt, "Topic shifts:") || strings.Contains(prompt, "Theme shifts:") {
		t.Error("sub-threshold shifts should be omitted")
	}
}

func TestBuildComparisonPromptThresholdFiltering(t *testing.T) {
	b := NewPromptBuilder()

	result := resultWith(0.2, 0.3) // above both thresholds
	prompt := b.BuildComparisonPrompt("June", "July", result)

	if !strings.Contains(prompt, "Topic shifts:") {
		t.Error("topic shift above threshold should appear")
	}
	if !strings.Contains(prompt, "Theme shifts:") {
		t.Error("theme shift above threshold should appear")
	}
}

func TestBuildComparisonPromptThresholdIsExclusive(t *testing.T) {
	b := NewPromptBuilder()

	// Exactly at the threshold does not qualify.
	result := resultWith(DefaultTopicDeltaThreshold, DefaultThemeDeltaThreshold)
	prompt := b.BuildComparisonPrompt("June", "July", result)

	if strings.Contains(prompt, "Topic shifts:") || strings.Contains(prompt, "Theme shifts:") {
		t.Error("shifts exactly at the threshold should be omitted")
	}
}

func TestBuildComparisonPromptDeterministicOrder(t *testing.T) {
	b := NewPromptBuilder()

	result := resultWith(0.2, 0.3)
	first := b.BuildComparisonPrompt("June", "July", result)
	for i := 0; i < 3; i++ {
		if got := b.BuildComparisonPrompt("June", "July", result); got != first {
			t.Fatal("prompt not deterministic across builds")
		}
	}
}

func resultWith(topicDelta, themeDelta float64) compare.Result {
	return compare.Result{
		Sentiment: Delta{A: 0.5, B: 0.2, Delta: -0.3},
		Metrics: map[string]Delta{
			"review_count": {A: 10, B: 15, Delta: 5},
		},
		Topics: map[string]Delta{
			"battery drain": {A: 0.1, B: 0.1 + topicDelta, Delta: topicDelta},
		},
		Themes: map[string]Delta{
			"Bugs": {A: 0.0, B: themeDelta, Delta: themeDelta},
		},
	}
}
