// Package themes tags reviews against a fixed theme vocabulary.
//
// Unlike topics, themes are keyword-presence scored against a shared
// vocabulary, so theme scores from two independent corpora are directly
// comparable.
package themes

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Names lists the six built-in themes in display order.
var Names = []string{"UX", "Performance", "Features", "Bugs", "Content", "Support"}

// Tagger scores texts against a theme → keywords vocabulary.
type Tagger struct {
	vocabulary map[string][]string // theme → keywords (lowercase)
	order      []string
}

// NewTagger creates an empty tagger.
func NewTagger() *Tagger {
	return &Tagger{vocabulary: make(map[string][]string)}
}

// Default returns a tagger with the built-in six-theme vocabulary.
func Default() *Tagger {
	t := NewTagger()
	t.AddTheme("UX", []string{"interface", "design", "layout", "user experience", "ui", "navigation", "menu"})
	t.AddTheme("Performance", []string{"slow", "lag", "crash", "freeze", "speed", "performance", "battery"})
	t.AddTheme("Features", []string{"feature", "function", "option", "capability", "tool"})
	t.AddTheme("Bugs", []string{"bug", "error", "issue", "problem", "glitch", "not working"})
	t.AddTheme("Content", []string{"content", "information", "data", "update", "news"})
	t.AddTheme("Support", []string{"support", "help", "customer service", "response", "contact"})
	return t
}

// AddTheme registers a theme with its keywords. Multi-word keywords are
// matched as substrings of the lowercased text.
func (t *Tagger) AddTheme(name string, keywords []string) {
	normalized := make([]string, len(keywords))
	for i, kw := range keywords {
		normalized[i] = strings.ToLower(kw)
	}
	if _, exists := t.vocabulary[name]; !exists {
		t.order = append(t.order, name)
	}
	t.vocabulary[name] = normalized
}

// Themes returns the theme names in registration order.
func (t *Tagger) Themes() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// TagOne scores a single text: per theme, the fraction of that theme's
// keywords present in the text. Scores are always in [0, 1].
func (t *Tagger) TagOne(text string) map[string]float64 {
	lower := strings.ToLower(text)
	scores := make(map[string]float64, len(t.vocabulary))
	for theme, keywords := range t.vocabulary {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		scores[theme] = float64(hits) / float64(len(keywords))
	}
	return scores
}

// Tag scores each text independently, preserving corpus order.
func (t *Tagger) Tag(texts []string) []map[string]float64 {
	out := make([]map[string]float64, len(texts))
	for i, text := range texts {
		out[i] = t.TagOne(text)
	}
	return out
}

// Averages computes per-theme mean scores over a corpus. An empty corpus
// returns zero for every theme so the key set never collapses.
func (t *Tagger) Averages(texts []string) map[string]float64 {
	avgs := make(map[string]float64, len(t.vocabulary))
	for theme := range t.vocabulary {
		avgs[theme] = 0
	}
	if len(texts) == 0 {
		return avgs
	}

	for _, scores := range t.Tag(texts) {
		for theme, score := range scores {
			avgs[theme] += score
		}
	}
	for theme := range avgs {
		avgs[theme] /= float64(len(texts))
	}
	return avgs
}

// LoadFromYAML loads a theme vocabulary from a YAML file.
//
// Expected format:
//
//	themes:
//	  - name: UX
//	    keywords: [interface, design, layout]
//	  - name: Bugs
//	    keywords: [bug, error, glitch]
func LoadFromYAML(path string) (*Tagger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Themes []struct {
			Name     string   `yaml:"name"`
			Keywords []string `yaml:"keywords"`
		} `yaml:"themes"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	t := NewTagger()
	for _, th := range config.Themes {
		t.AddTheme(th.Name, th.Keywords)
	}
	return t, nil
}

// SortedThemes returns theme names of a score map in deterministic order.
func SortedThemes(scores map[string]float64) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
