package narrative

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/revlens/revlens/pkg/revlens/compare"
)

// Truncation defaults. These bound the prompt payload sent to the
// text-generation collaborator and therefore its token cost.
const (
	// DefaultMaxReviewChars caps one review's contribution to a prompt.
	DefaultMaxReviewChars = 1000

	// DefaultMaxPromptChars is the hard ceiling on concatenated review
	// text. Once adding the next review would cross it, the remaining
	// reviews are dropped whole, in order, not truncated to fit.
	DefaultMaxPromptChars = 20000

	// DefaultTopicDeltaThreshold filters topic lines out of comparison
	// prompts; shifts at or below it are noise, not narrative material.
	DefaultTopicDeltaThreshold = 0.05

	// DefaultThemeDeltaThreshold does the same for theme lines.
	DefaultThemeDeltaThreshold = 0.1
)

const ellipsis = "…"

const reviewSeparator = "\n\n"

// PromptBuilder assembles prompts from review corpora and comparison
// payloads. The thresholds and limits are tuning knobs, not constants baked
// into the assembly logic.
type PromptBuilder struct {
	MaxReviewChars      int
	MaxPromptChars      int
	TopicDeltaThreshold float64
	ThemeDeltaThreshold float64
}

// NewPromptBuilder returns a builder with the default limits.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		MaxReviewChars:      DefaultMaxReviewChars,
		MaxPromptChars:      DefaultMaxPromptChars,
		TopicDeltaThreshold: DefaultTopicDeltaThreshold,
		ThemeDeltaThreshold: DefaultThemeDeltaThreshold,
	}
}

// TruncateText caps one text at MaxReviewChars characters, appending an
// ellipsis marker when anything was cut. The limit counts characters, not
// bytes: multi-byte review text keeps the full allowance and the cut never
// lands inside a rune.
func (b *PromptBuilder) TruncateText(text string) string {
	if b.MaxReviewChars <= 0 || utf8.RuneCountInString(text) <= b.MaxReviewChars {
		return text
	}
	return string([]rune(text)[:b.MaxReviewChars]) + ellipsis
}

// JoinTexts concatenates truncated texts with blank-line separators, in
// original order, until adding the next text would push the running total
// past MaxPromptChars. Texts beyond that point are dropped entirely.
func (b *PromptBuilder) JoinTexts(texts []string) string {
	var sb strings.Builder
	// The running total counts characters, like the per-text limit.
	total := 0
	for _, text := range texts {
		t := b.TruncateText(text)
		needed := utf8.RuneCountInString(t)
		if sb.Len() > 0 {
			needed += len(reviewSeparator)
		}
		if b.MaxPromptChars > 0 && total+needed > b.MaxPromptChars {
			break
		}
		if sb.Len() > 0 {
			sb.WriteString(reviewSeparator)
		}
		sb.WriteString(t)
		total += needed
	}
	return sb.String()
}

// defaultSummaryInstructions mirrors the single-population analysis brief.
const defaultSummaryInstructions = `Analyze the following app reviews and provide a comprehensive summary focusing on:
1. Overall sentiment and user satisfaction
2. Key features and functionality mentioned
3. Common issues and pain points
4. User suggestions and feature requests
5. Notable trends or patterns in the feedback

Format the response in clear sections with bullet points for easy reading.`

// BuildSummaryPrompt builds the prompt for summarizing one review corpus.
// An empty instructions string selects the default brief.
func (b *PromptBuilder) BuildSummaryPrompt(texts []string, instructions string) string {
	if instructions == "" {
		instructions = defaultSummaryInstructions
	}
	return instructions + "\n\nReviews:\n" + b.JoinTexts(texts)
}

// BuildAppComparisonPrompt builds the prompt comparing two apps' raw review
// corpora. Each side gets its own budgeted block.
func (b *PromptBuilder) BuildAppComparisonPrompt(nameA, nameB string, textsA, textsB []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `Compare the reviews of %s and %s apps.
Focus on:
1. Overall satisfaction levels
2. Common issues and complaints
3. Unique strengths of each app
4. Feature comparison
5. Customer service quality
6. Areas for improvement

`, nameA, nameB)
	fmt.Fprintf(&sb, "%s Reviews:\n%s\n\n", nameA, b.JoinTexts(textsA))
	fmt.Fprintf(&sb, "%s Reviews:\n%s\n\n", nameB, b.JoinTexts(textsB))
	sb.WriteString("Please provide a structured comparison with these sections.")
	return sb.String()
}

// BuildComparisonPrompt formats a comparison payload into delta lines.
// Metric lines are always present; topic and theme lines only when their
// absolute delta clears the respective threshold, keeping the narrative on
// materially significant shifts.
func (b *PromptBuilder) BuildComparisonPrompt(nameA, nameB string, result compare.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze the changes in app reviews between %s and %s.\n\n", nameA, nameB)

	sb.WriteString("Metrics:\n")
	fmt.Fprintf(&sb, "- sentiment: %.3f -> %.3f (delta %+.3f)\n",
		result.Sentiment.A, result.Sentiment.B, result.Sentiment.Delta)
	for _, name := range sortedKeys(result.Metrics) {
		d := result.Metrics[name]
		fmt.Fprintf(&sb, "- %s: %.3f -> %.3f (delta %+.3f)\n", name, d.A, d.B, d.Delta)
	}

	topicLines := b.deltaLines(result.Topics, b.TopicDeltaThreshold)
	if len(topicLines) > 0 {
		sb.WriteString("\nTopic shifts:\n")
		for _, line := range topicLines {
			sb.WriteString(line)
		}
	}

	themeLines := b.deltaLines(result.Themes, b.ThemeDeltaThreshold)
	if len(themeLines) > 0 {
		sb.WriteString("\nTheme shifts:\n")
		for _, line := range themeLines {
			sb.WriteString(line)
		}
	}

	sb.WriteString(`
Summarize what changed between the two periods:
1. Direction of sentiment and satisfaction
2. Topics that gained or lost attention
3. Theme-level shifts (bugs, performance, support)
4. Likely causes worth investigating

Use concise bullet points.`)
	return sb.String()
}

func (b *PromptBuilder) deltaLines(deltas map[string]Delta, threshold float64) []string {
	lines := make([]string, 0, len(deltas))
	for _, key := range sortedKeys(deltas) {
		d := deltas[key]
		if abs(d.Delta) <= threshold {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %.3f -> %.3f (delta %+.3f)\n", key, d.A, d.B, d.Delta))
	}
	return lines
}

// Delta aliases the comparison payload's measurement type.
type Delta = compare.Delta

func sortedKeys(m map[string]Delta) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
