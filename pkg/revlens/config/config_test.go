package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/revlens/revlens/pkg/revlens/internalerr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revlens.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
apps:
  - name: My App
    id: com.example.myapp
  - name: Rival
    id: com.example.rival
fetch:
  endpoint: http://localhost:3000
  count: 500
snapshot:
  dir: /tmp/snaps
  retention_days: 14
archive:
  path: /tmp/archive.db
analysis:
  topic_count: 8
  topic_delta_threshold: 0.02
  theme_delta_threshold: 0.2
llm:
  model: gpt-4o
  max_tokens: 2000
  temperature: 0.4
  timeout_seconds: 60
  max_retries: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if len(cfg.Apps) != 2 || cfg.Apps[0].ID != "com.example.myapp" {
		t.Errorf("Apps = %+v", cfg.Apps)
	}
	if cfg.Fetch.Count != 500 || cfg.Fetch.Endpoint != "http://localhost:3000" {
		t.Errorf("Fetch = %+v", cfg.Fetch)
	}
	if cfg.Snapshot.RetentionDays != 14 {
		t.Errorf("RetentionDays = %d", cfg.Snapshot.RetentionDays)
	}
	if cfg.Analysis.TopicCount != 8 || cfg.Analysis.TopicDeltaThreshold != 0.02 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.TimeoutSeconds != 60 {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
apps:
  - name: Only App
    id: com.example.only
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fetch.Count != 200 {
		t.Errorf("default Fetch.Count = %d, want 200", cfg.Fetch.Count)
	}
	if cfg.Snapshot.RetentionDays != 7 {
		t.Errorf("default RetentionDays = %d, want 7", cfg.Snapshot.RetentionDays)
	}
	if cfg.Analysis.TopicCount != 5 {
		t.Errorf("default TopicCount = %d, want 5", cfg.Analysis.TopicCount)
	}
	if cfg.Analysis.TopicDeltaThreshold != 0.05 || cfg.Analysis.ThemeDeltaThreshold != 0.1 {
		t.Errorf("default thresholds = %v / %v", cfg.Analysis.TopicDeltaThreshold, cfg.Analysis.ThemeDeltaThreshold)
	}
	if cfg.LLM.Model != "gpt-4o-mini" || cfg.LLM.MaxTokens != 1000 {
		t.Errorf("default LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.TimeoutSeconds != 30 || cfg.LLM.MaxRetries != 3 {
		t.Errorf("default LLM limits = %+v", cfg.LLM)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Level = %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsAppWithoutID(t *testing.T) {
	path := writeConfig(t, `
apps:
  - name: Nameless
`)
	_, err := Load(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadRejectsDuplicateAppIDs(t *testing.T) {
	path := writeConfig(t, `
apps:
  - name: One
    id: com.example.dup
  - name: Two
    id: com.example.dup
`)
	_, err := Load(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "apps: [unterminated")
	if _, err := Load(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestAppNameResolution(t *testing.T) {
	cfg := &AppConfig{Apps: []AppSource{{Name: "My App", ID: "com.example.myapp"}}}

	if got := cfg.AppName("com.example.myapp"); got != "My App" {
		t.Errorf("AppName = %q", got)
	}
	if got := cfg.AppName("com.unknown"); got != "com.unknown" {
		t.Errorf("AppName fallback = %q, want the id itself", got)
	}
}
