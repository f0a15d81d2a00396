package period

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/revlens/revlens/pkg/revlens/review"
)

// Version mentions are free-text heuristics, not store metadata. Patterns
// are tried in order and the first match anywhere in the text wins, which
// can pick an unintended number when a review names several versions; that
// imprecision is a known property of the heuristic, kept as-is.
var defaultVersionPatterns = []string{
	`version\s+(\d+\.\d+(?:\.\d+)?)`, // version 1.2.3
	`v(\d+\.\d+(?:\.\d+)?)`,          // v1.2.3
	`(\d+\.\d+(?:\.\d+)?)\s+version`, // 1.2.3 version
	`update\s+(\d+\.\d+(?:\.\d+)?)`,  // update 1.2.3
}

// VersionExtractor detects version tags in review text using an ordered
// pattern list.
type VersionExtractor struct {
	patterns []*regexp.Regexp
}

// NewVersionExtractor compiles an ordered pattern list. Each pattern must
// expose the version number as its first capture group.
func NewVersionExtractor(patterns []string) (*VersionExtractor, error) {
	if len(patterns) == 0 {
		patterns = defaultVersionPatterns
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return &VersionExtractor{patterns: compiled}, nil
}

// DefaultVersionExtractor returns the extractor with built-in patterns.
func DefaultVersionExtractor() *VersionExtractor {
	ve, err := NewVersionExtractor(nil)
	if err != nil {
		panic(err) // built-in patterns are static
	}
	return ve
}

// Extract returns the detected version tag, or "" when no pattern matches.
func (ve *VersionExtractor) Extract(text string) string {
	lower := strings.ToLower(text)
	for _, re := range ve.patterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return m[1]
		}
	}
	return ""
}

// GroupByVersion tags each review and groups the tagged ones into one
// Period per version. Reviews matching no pattern are excluded.
func (ve *VersionExtractor) GroupByVersion(reviews []review.Review) map[string]Period {
	groups := make(map[string]Period)
	for _, r := range reviews {
		v := ve.Extract(r.Text)
		if v == "" {
			continue
		}
		r.Version = v
		p := groups[v]
		p.Name = v
		p.Reviews = append(p.Reviews, r)
		groups[v] = p
	}
	return groups
}

// VersionRelease is one entry of a version timeline.
type VersionRelease struct {
	Version   string    `json:"version"`
	FirstSeen time.Time `json:"first_seen"`
}

// Timeline orders detected versions by the date each was first mentioned.
func (ve *VersionExtractor) Timeline(reviews []review.Review) []VersionRelease {
	firstSeen := make(map[string]time.Time)
	for _, r := range reviews {
		v := ve.Extract(r.Text)
		if v == "" {
			continue
		}
		if seen, ok := firstSeen[v]; !ok || r.Date.Before(seen) {
			firstSeen[v] = r.Date
		}
	}

	timeline := make([]VersionRelease, 0, len(firstSeen))
	for v, date := range firstSeen {
		timeline = append(timeline, VersionRelease{Version: v, FirstSeen: date})
	}
	sort.Slice(timeline, func(i, j int) bool {
		if !timeline[i].FirstSeen.Equal(timeline[j].FirstSeen) {
			return timeline[i].FirstSeen.Before(timeline[j].FirstSeen)
		}
		return CompareVersions(timeline[i].Version, timeline[j].Version) < 0
	})
	return timeline
}

// CompareVersions compares dotted version strings numerically per segment:
// "1.10" sorts after "1.9", which lexicographic comparison gets wrong.
// Missing segments count as zero. Non-numeric segments fall back to string
// comparison.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		sa, sb := "0", "0"
		if i < len(as) && as[i] != "" {
			sa = as[i]
		}
		if i < len(bs) && bs[i] != "" {
			sb = bs[i]
		}
		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		if errA != nil || errB != nil {
			if c := strings.Compare(sa, sb); c != 0 {
				return c
			}
			continue
		}
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return 0
}

// SortVersionsDesc orders version labels newest-first for display.
func SortVersionsDesc(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		return CompareVersions(versions[i], versions[j]) > 0
	})
}
