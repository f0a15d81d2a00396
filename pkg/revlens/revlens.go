// Package revlens analyzes app-store review populations: per-review
// sentiment, discovered topics, fixed-vocabulary themes, and aligned
// comparisons between two periods, versions, or competing apps.
package revlens

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/revlens/revlens/pkg/revlens/compare"
	"github.com/revlens/revlens/pkg/revlens/internalerr"
	"github.com/revlens/revlens/pkg/revlens/narrative"
	"github.com/revlens/revlens/pkg/revlens/period"
	"github.com/revlens/revlens/pkg/revlens/review"
	"github.com/revlens/revlens/pkg/revlens/snapshot"
	"github.com/revlens/revlens/pkg/revlens/store"
	"github.com/revlens/revlens/pkg/revlens/themes"
	"github.com/revlens/revlens/pkg/revlens/topics"
)

// Provider supplies raw review records for an app. Its paging, rate
// limiting, and retries are its own concern.
type Provider interface {
	Fetch(ctx context.Context, appID string, count int) ([]review.Raw, error)
}

// App identifies one analyzed app.
type App struct {
	ID   string
	Name string
}

// DisplayName prefers the configured name over the package id.
func (a App) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// Revlens is the analysis facade: it owns the provider, stores, and
// analysis components and runs whole analyses through them. All runs are
// synchronous; every operation completes before the next starts.
type Revlens struct {
	provider   Provider
	snapshots  *snapshot.Store
	archive    store.Store // optional
	scorer     review.Scorer
	engine     *compare.Engine
	versions   *period.VersionExtractor
	summarizer *narrative.Summarizer // optional
	logger     *slog.Logger
	fetchCount int
	entropy    *ulid.MonotonicEntropy
	now        func() time.Time
}

// Options configures a Revlens instance.
type Options struct {
	Provider   Provider
	Snapshots  *snapshot.Store
	Archive    store.Store
	Scorer     review.Scorer
	Engine     *compare.Engine
	Versions   *period.VersionExtractor
	Summarizer *narrative.Summarizer
	Logger     *slog.Logger
	FetchCount int
}

// New creates a Revlens instance with the given dependencies.
func New(opts Options) *Revlens {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(99)}))
	}
	versions := opts.Versions
	if versions == nil {
		versions = period.DefaultVersionExtractor()
	}
	fetchCount := opts.FetchCount
	if fetchCount <= 0 {
		fetchCount = 200
	}
	return &Revlens{
		provider:   opts.Provider,
		snapshots:  opts.Snapshots,
		archive:    opts.Archive,
		scorer:     opts.Scorer,
		engine:     opts.Engine,
		versions:   versions,
		summarizer: opts.Summarizer,
		logger:     logger,
		fetchCount: fetchCount,
		entropy:    ulid.Monotonic(rand.Reader, 0),
		now:        time.Now,
	}
}

// Close releases the archive store, if any.
func (r *Revlens) Close() error {
	if r.archive != nil {
		return r.archive.Close()
	}
	return nil
}

// LoadReviews returns the normalized review population for an app, reading
// today's snapshot when one exists and fetching otherwise. Fresh fetches
// are snapshotted and, when an archive is configured, upserted there.
func (r *Revlens) LoadReviews(ctx context.Context, app App) ([]review.Review, error) {
	raws, err := r.loadRaw(ctx, app)
	if err != nil {
		return nil, err
	}

	reviews := review.Normalize(raws, r.scorer, r.now())
	for i := range reviews {
		reviews[i].Version = r.versions.Extract(reviews[i].Text)
	}

	if r.archive != nil {
		if err := r.archive.UpsertReviews(ctx, app.ID, reviews); err != nil {
			// Archiving is bookkeeping; the run proceeds without it.
			r.logger.Warn("review archive failed", "app", app.ID, "error", err)
		}
	}
	return reviews, nil
}

func (r *Revlens) loadRaw(ctx context.Context, app App) ([]review.Raw, error) {
	if r.snapshots != nil {
		snap, err := r.snapshots.Load(app.ID)
		if err == nil {
			r.logger.Info("loaded snapshot", "app", app.ID, "reviews", len(snap.Reviews))
			return snap.Reviews, nil
		}
		if !errors.Is(err, internalerr.ErrNotFound) {
			r.logger.Warn("snapshot read failed, refetching", "app", app.ID, "error", err)
		}
	}

	if r.provider == nil {
		return nil, fmt.Errorf("%w: no provider and no snapshot for %s", internalerr.ErrFetch, app.ID)
	}
	raws, err := r.provider.Fetch(ctx, app.ID, r.fetchCount)
	if err != nil {
		return nil, err
	}
	r.logger.Info("fetched reviews", "app", app.ID, "reviews", len(raws))

	if r.snapshots != nil {
		if err := r.snapshots.Save(app.ID, raws, r.fetchCount); err != nil {
			r.logger.Warn("snapshot write failed", "app", app.ID, "error", err)
		}
	}
	return raws, nil
}

// AppReport is a single-population analysis.
type AppReport struct {
	App        string                   `json:"app"`
	Stats      review.Stats             `json:"stats"`
	Ratings    []review.RatingCount     `json:"rating_distribution"`
	Sentiments []review.RatingSentiment `json:"sentiment_by_rating"`
	Topics     []topics.Topic           `json:"topics,omitempty"`
	Themes     map[string]float64       `json:"themes"`
	Narrative  string                   `json:"narrative,omitempty"`
}

// AnalyzeApp computes the full single-population report. Topic extraction
// failing on a degenerate corpus skips that section with a warning instead
// of aborting the rest; a narrative failure likewise degrades to an empty
// narrative, statistical results intact.
func (r *Revlens) AnalyzeApp(ctx context.Context, app App) (AppReport, error) {
	reviews, err := r.LoadReviews(ctx, app)
	if err != nil {
		return AppReport{}, err
	}
	if len(reviews) == 0 {
		return AppReport{}, fmt.Errorf("%w: no reviews for %s", internalerr.ErrInsufficientData, app.ID)
	}

	texts := review.Texts(reviews)
	report := AppReport{
		App:        app.DisplayName(),
		Stats:      review.Summarize(reviews),
		Ratings:    review.RatingDistribution(reviews),
		Sentiments: review.SentimentByRating(reviews),
		Themes:     r.engine.Tagger.Averages(texts),
	}

	if tops, err := r.engine.Extractor.Extract(texts, r.engine.TopicCount); err != nil {
		r.logger.Warn("topic extraction skipped", "app", app.ID, "error", err)
	} else {
		report.Topics = tops
	}

	if r.summarizer != nil {
		if summary, err := r.summarizer.SummarizeReviews(ctx, app.DisplayName(), texts); err != nil {
			r.logger.Warn("narrative skipped", "app", app.ID, "error", err)
		} else {
			report.Narrative = summary
		}
	}
	return report, nil
}

// ComparisonReport pairs the statistical comparison with its narrative.
// NarrativeErr carries a failed narrative as data: statistical results must
// still reach the caller when the collaborator is down.
type ComparisonReport struct {
	RunID        string         `json:"run_id,omitempty"`
	App          string         `json:"app"`
	Kind         string         `json:"kind"`
	SideA        string         `json:"side_a"`
	SideB        string         `json:"side_b"`
	StatsA       review.Stats   `json:"stats_a"`
	StatsB       review.Stats   `json:"stats_b"`
	Result       compare.Result `json:"result"`
	Narrative    string         `json:"narrative,omitempty"`
	NarrativeErr string         `json:"narrative_error,omitempty"`
}

// ComparePeriods compares an app's reviews across two date ranges, both
// inclusive. Either range matching no reviews is ErrInsufficientData,
// reported before the engine ever divides by a population size.
func (r *Revlens) ComparePeriods(ctx context.Context, app App, startA, endA, startB, endB time.Time) (ComparisonReport, error) {
	if endA.Before(startA) || endB.Before(startB) {
		return ComparisonReport{}, fmt.Errorf("%w: period end precedes start", internalerr.ErrInvalidInput)
	}

	reviews, err := r.LoadReviews(ctx, app)
	if err != nil {
		return ComparisonReport{}, err
	}

	periodA := period.ByDateRange(reviews, startA, endA)
	periodB := period.ByDateRange(reviews, startB, endB)
	return r.comparePeriods(ctx, app, store.RunKindPeriod, periodA, periodB)
}

// CompareVersions compares the review groups of two detected version tags.
func (r *Revlens) CompareVersions(ctx context.Context, app App, versionA, versionB string) (ComparisonReport, error) {
	if versionA == "" || versionB == "" {
		return ComparisonReport{}, fmt.Errorf("%w: two version tags required", internalerr.ErrInvalidInput)
	}

	reviews, err := r.LoadReviews(ctx, app)
	if err != nil {
		return ComparisonReport{}, err
	}

	groups := r.versions.GroupByVersion(reviews)
	periodA, okA := groups[versionA]
	periodB, okB := groups[versionB]
	if !okA || !okB {
		return ComparisonReport{}, fmt.Errorf("%w: version groups %s=%d %s=%d reviews",
			internalerr.ErrInsufficientData, versionA, len(periodA.Reviews), versionB, len(periodB.Reviews))
	}
	return r.comparePeriods(ctx, app, store.RunKindVersion, periodA, periodB)
}

// CompareApps compares two competing apps' whole populations. The narrative
// is built from both raw corpora rather than delta lines.
func (r *Revlens) CompareApps(ctx context.Context, appA, appB App) (ComparisonReport, error) {
	reviewsA, err := r.LoadReviews(ctx, appA)
	if err != nil {
		return ComparisonReport{}, err
	}
	reviewsB, err := r.LoadReviews(ctx, appB)
	if err != nil {
		return ComparisonReport{}, err
	}

	periodA := period.BySource(appA.DisplayName(), reviewsA)
	periodB := period.BySource(appB.DisplayName(), reviewsB)

	report, err := r.compareOnly(appA, store.RunKindCompetitor, periodA, periodB)
	if err != nil {
		return ComparisonReport{}, err
	}

	if r.summarizer != nil {
		summary, err := r.summarizer.CompareApps(ctx, appA.DisplayName(), appB.DisplayName(), periodA.Texts(), periodB.Texts())
		if err != nil {
			r.logger.Warn("app comparison narrative failed", "error", err)
			report.NarrativeErr = err.Error()
		} else {
			report.Narrative = summary
		}
	}

	r.recordRun(ctx, &report)
	return report, nil
}

// VersionTimeline orders an app's detected versions by first mention.
func (r *Revlens) VersionTimeline(ctx context.Context, app App) ([]period.VersionRelease, error) {
	reviews, err := r.LoadReviews(ctx, app)
	if err != nil {
		return nil, err
	}
	return r.versions.Timeline(reviews), nil
}

// VersionGroups returns the per-version periods, plus the version labels in
// descending version order for display.
func (r *Revlens) VersionGroups(ctx context.Context, app App) (map[string]period.Period, []string, error) {
	reviews, err := r.LoadReviews(ctx, app)
	if err != nil {
		return nil, nil, err
	}

	groups := r.versions.GroupByVersion(reviews)
	labels := make([]string, 0, len(groups))
	for v := range groups {
		labels = append(labels, v)
	}
	period.SortVersionsDesc(labels)
	return groups, labels, nil
}

func (r *Revlens) comparePeriods(ctx context.Context, app App, kind string, periodA, periodB period.Period) (ComparisonReport, error) {
	report, err := r.compareOnly(app, kind, periodA, periodB)
	if err != nil {
		return ComparisonReport{}, err
	}

	if r.summarizer != nil {
		summary, err := r.summarizer.SummarizeComparison(ctx, periodA.Name, periodB.Name, report.Result)
		if err != nil {
			r.logger.Warn("comparison narrative failed", "error", err)
			report.NarrativeErr = err.Error()
		} else {
			report.Narrative = summary
		}
	}

	r.recordRun(ctx, &report)
	return report, nil
}

// compareOnly runs the statistical comparison with the empty-slice check in
// front of the engine.
func (r *Revlens) compareOnly(app App, kind string, periodA, periodB period.Period) (ComparisonReport, error) {
	if periodA.Empty() {
		return ComparisonReport{}, fmt.Errorf("%w: no reviews in %s", internalerr.ErrInsufficientData, periodA.Name)
	}
	if periodB.Empty() {
		return ComparisonReport{}, fmt.Errorf("%w: no reviews in %s", internalerr.ErrInsufficientData, periodB.Name)
	}

	result, err := r.engine.Compare(periodA.Reviews, periodB.Reviews)
	if err != nil {
		return ComparisonReport{}, err
	}

	return ComparisonReport{
		App:    app.DisplayName(),
		Kind:   kind,
		SideA:  periodA.Name,
		SideB:  periodB.Name,
		StatsA: review.Summarize(periodA.Reviews),
		StatsB: review.Summarize(periodB.Reviews),
		Result: result,
	}, nil
}

// recordRun archives a finished comparison when an archive is configured.
func (r *Revlens) recordRun(ctx context.Context, report *ComparisonReport) {
	if r.archive == nil {
		return
	}

	report.RunID = ulid.MustNew(ulid.Timestamp(r.now()), r.entropy).String()
	resultJSON, err := json.Marshal(report.Result)
	if err != nil {
		r.logger.Warn("run encode failed", "error", err)
		return
	}
	run := store.Run{
		ID:         report.RunID,
		AppID:      report.App,
		Kind:       report.Kind,
		SideA:      report.SideA,
		SideB:      report.SideB,
		CreatedAt:  r.now(),
		ResultJSON: string(resultJSON),
		Narrative:  report.Narrative,
	}
	if err := r.archive.SaveRun(ctx, run); err != nil {
		r.logger.Warn("run archive failed", "run", run.ID, "error", err)
	}
}

// ThemeNames exposes the engine's theme vocabulary for display ordering.
func (r *Revlens) ThemeNames() []string {
	if r.engine != nil && r.engine.Tagger != nil {
		return r.engine.Tagger.Themes()
	}
	return themes.Names
}
