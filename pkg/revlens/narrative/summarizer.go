// Package narrative turns review corpora and comparison payloads into
// prompts for an external text-generation collaborator and returns its
// summaries, with content-addressed caching in front of the outbound call.
package narrative

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/revlens/revlens/pkg/revlens/cache"
	"github.com/revlens/revlens/pkg/revlens/compare"
	"github.com/revlens/revlens/pkg/revlens/internalerr"
)

// Generator is the text-generation collaborator. Its retry and rate-limit
// behavior is its own concern; this layer only bounds and delegates.
type Generator interface {
	Generate(ctx context.Context, systemRole, prompt string, maxTokens int, temperature float64) (string, error)
}

// System roles per prompt kind.
const (
	roleReviewAnalyst     = "You are an expert app review analyst."
	roleCompetitiveExpert = "You are a competitive analysis expert specializing in app reviews."
)

// Generation defaults.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// Summarizer builds prompts, consults the result cache, and delegates to
// the generator. It never fabricates a summary locally: generator failures
// surface as ErrNarrativeGeneration and the caller degrades that section.
type Summarizer struct {
	gen     Generator
	builder *PromptBuilder
	cache   *cache.Store // optional
	logger  *slog.Logger

	MaxTokens   int
	Temperature float64
}

// NewSummarizer creates a summarizer. cacheStore may be nil to disable
// caching; logger may be nil for a silent default.
func NewSummarizer(gen Generator, builder *PromptBuilder, cacheStore *cache.Store, logger *slog.Logger) *Summarizer {
	if builder == nil {
		builder = NewPromptBuilder()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(99)}))
	}
	return &Summarizer{
		gen:         gen,
		builder:     builder,
		cache:       cacheStore,
		logger:      logger,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

// SummarizeReviews summarizes one population of review texts.
func (s *Summarizer) SummarizeReviews(ctx context.Context, appName string, texts []string) (string, error) {
	if len(texts) == 0 {
		return "", fmt.Errorf("%w: no review texts to summarize", internalerr.ErrInsufficientData)
	}
	prompt := s.builder.BuildSummaryPrompt(texts, "")
	discriminator := s.discriminator("summary", appName)
	return s.generate(ctx, roleReviewAnalyst, prompt, texts, discriminator)
}

// CompareApps summarizes how two apps' review corpora differ.
func (s *Summarizer) CompareApps(ctx context.Context, nameA, nameB string, textsA, textsB []string) (string, error) {
	if len(textsA) == 0 || len(textsB) == 0 {
		return "", fmt.Errorf("%w: both apps need review texts", internalerr.ErrInsufficientData)
	}
	prompt := s.builder.BuildAppComparisonPrompt(nameA, nameB, textsA, textsB)
	combined := make([]string, 0, len(textsA)+len(textsB))
	combined = append(combined, textsA...)
	combined = append(combined, textsB...)
	discriminator := s.discriminator("apps", nameA+"|"+nameB)
	return s.generate(ctx, roleCompetitiveExpert, prompt, combined, discriminator)
}

// SummarizeComparison narrates a comparison payload between two named
// populations (periods or versions). The cache key is built from the
// formatted delta lines, so the same payload reuses its narrative.
func (s *Summarizer) SummarizeComparison(ctx context.Context, nameA, nameB string, result compare.Result) (string, error) {
	prompt := s.builder.BuildComparisonPrompt(nameA, nameB, result)
	discriminator := s.discriminator("comparison", nameA+"|"+nameB)
	return s.generate(ctx, roleReviewAnalyst, prompt, []string{prompt}, discriminator)
}

// discriminator encodes everything besides the input texts that affects the
// generated output. It is always part of the fingerprint.
func (s *Summarizer) discriminator(kind, identity string) string {
	return fmt.Sprintf("%s|%s|tokens=%d|temp=%.2f", kind, identity, s.MaxTokens, s.Temperature)
}

func (s *Summarizer) generate(ctx context.Context, role, prompt string, fingerprintTexts []string, discriminator string) (string, error) {
	var fp string
	if s.cache != nil {
		fp = cache.Fingerprint(fingerprintTexts, discriminator)
		summary, ok, err := s.cache.Get(fp)
		if err != nil {
			// Forced miss: cache trouble must never block generation.
			s.logger.Warn("narrative cache read failed", "error", err)
		} else if ok {
			s.logger.Debug("narrative cache hit", "fingerprint", fp)
			return summary, nil
		}
	}

	summary, err := s.gen.Generate(ctx, role, prompt, s.MaxTokens, s.Temperature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", internalerr.ErrNarrativeGeneration, err)
	}
	if summary == "" {
		return "", fmt.Errorf("%w: generator returned empty summary", internalerr.ErrNarrativeGeneration)
	}

	if s.cache != nil {
		if err := s.cache.Put(fp, summary); err != nil {
			s.logger.Warn("narrative cache write failed", "error", err)
		}
	}
	return summary, nil
}
