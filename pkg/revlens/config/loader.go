package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/revlens/revlens/pkg/revlens/narrative"
	"github.com/revlens/revlens/pkg/revlens/period"
	"github.com/revlens/revlens/pkg/revlens/sentiment"
	"github.com/revlens/revlens/pkg/revlens/themes"
	"github.com/revlens/revlens/pkg/revlens/topics"
)

// Components holds the analysis pipeline pieces assembled from
// configuration. Anything without a configured file uses the built-in
// default.
type Components struct {
	Scorer           *sentiment.Lexicon
	Tokenizer        *topics.Tokenizer
	Extractor        *topics.Extractor
	Tagger           *themes.Tagger
	VersionExtractor *period.VersionExtractor
	PromptBuilder    *narrative.PromptBuilder
}

// BuildComponents assembles analysis components from an AppConfig.
func BuildComponents(cfg *AppConfig) (*Components, error) {
	comp := &Components{}

	if cfg.Analysis.LexiconPath != "" {
		lex, err := sentiment.LoadFromYAML(cfg.Analysis.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Scorer = lex
	} else {
		comp.Scorer = sentiment.Default()
	}

	stopwords := topics.DefaultStopwords()
	if cfg.Analysis.StopwordsPath != "" {
		loaded, err := LoadStopwords(cfg.Analysis.StopwordsPath)
		if err != nil {
			return nil, fmt.Errorf("load stopwords: %w", err)
		}
		stopwords = loaded
	}
	comp.Tokenizer = topics.NewTokenizer(stopwords)
	comp.Extractor = topics.NewExtractor(comp.Tokenizer)

	if cfg.Analysis.ThemesPath != "" {
		tagger, err := themes.LoadFromYAML(cfg.Analysis.ThemesPath)
		if err != nil {
			return nil, fmt.Errorf("load themes: %w", err)
		}
		comp.Tagger = tagger
	} else {
		comp.Tagger = themes.Default()
	}

	ve, err := period.NewVersionExtractor(cfg.Analysis.VersionPatterns)
	if err != nil {
		return nil, fmt.Errorf("compile version patterns: %w", err)
	}
	comp.VersionExtractor = ve

	comp.PromptBuilder = narrative.NewPromptBuilder()
	comp.PromptBuilder.TopicDeltaThreshold = cfg.Analysis.TopicDeltaThreshold
	comp.PromptBuilder.ThemeDeltaThreshold = cfg.Analysis.ThemeDeltaThreshold

	return comp, nil
}

// LoadStopwords loads a stopword list from a YAML file.
//
// Expected format:
//
//	terms: [the, and, app, really]
func LoadStopwords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	terms := make([]string, 0, len(config.Terms))
	for _, t := range config.Terms {
		t = strings.TrimSpace(t)
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms, nil
}
