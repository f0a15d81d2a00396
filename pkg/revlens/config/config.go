package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/revlens/revlens/pkg/revlens/internalerr"
)

// AppConfig is the top-level YAML configuration.
type AppConfig struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Apps     []AppSource    `yaml:"apps"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Cache    CacheConfig    `yaml:"cache"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Analysis AnalysisConfig `yaml:"analysis"`
	LLM      LLMConfig      `yaml:"llm"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AppSource is one tracked app.
type AppSource struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"` // store package id, e.g. com.example.app
}

type FetchConfig struct {
	Endpoint string `yaml:"endpoint"`
	Count    int    `yaml:"count"`
}

type SnapshotConfig struct {
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days"`
}

type CacheConfig struct {
	Dir string `yaml:"dir"`
}

type ArchiveConfig struct {
	Path string `yaml:"path"` // sqlite file; empty disables archiving
}

// AnalysisConfig carries the tuning knobs of the analysis pipeline. Paths
// left empty select the built-in defaults.
type AnalysisConfig struct {
	TopicCount          int      `yaml:"topic_count"`
	TopicDeltaThreshold float64  `yaml:"topic_delta_threshold"`
	ThemeDeltaThreshold float64  `yaml:"theme_delta_threshold"`
	StopwordsPath       string   `yaml:"stopwords_path"`
	LexiconPath         string   `yaml:"lexicon_path"`
	ThemesPath          string   `yaml:"themes_path"`
	VersionPatterns     []string `yaml:"version_patterns"`
}

type LLMConfig struct {
	Model          string  `yaml:"model"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
}

// Load reads and validates the YAML configuration file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Fetch.Count <= 0 {
		c.Fetch.Count = 200
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "data/snapshots"
	}
	if c.Snapshot.RetentionDays <= 0 {
		c.Snapshot.RetentionDays = 7
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "data/summaries"
	}
	if c.Analysis.TopicCount <= 0 {
		c.Analysis.TopicCount = 5
	}
	if c.Analysis.TopicDeltaThreshold <= 0 {
		c.Analysis.TopicDeltaThreshold = 0.05
	}
	if c.Analysis.ThemeDeltaThreshold <= 0 {
		c.Analysis.ThemeDeltaThreshold = 0.1
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 1000
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 30
	}
	if c.LLM.MaxRetries <= 0 {
		c.LLM.MaxRetries = 3
	}
}

func (c *AppConfig) validate() error {
	seen := make(map[string]struct{}, len(c.Apps))
	for _, app := range c.Apps {
		if app.ID == "" {
			return fmt.Errorf("%w: app %q has no id", internalerr.ErrInvalidConfig, app.Name)
		}
		if _, dup := seen[app.ID]; dup {
			return fmt.Errorf("%w: duplicate app id %s", internalerr.ErrInvalidConfig, app.ID)
		}
		seen[app.ID] = struct{}{}
	}
	return nil
}

// AppName resolves a display name for an app id, falling back to the id.
func (c *AppConfig) AppName(appID string) string {
	for _, app := range c.Apps {
		if app.ID == appID {
			return app.Name
		}
	}
	return appID
}
