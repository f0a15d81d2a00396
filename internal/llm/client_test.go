package llm

import "testing"

func TestNewRequiresModel(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("missing model should be an error")
	}
}

func TestNewWithDefaults(t *testing.T) {
	c, err := New(Options{Model: "gpt-4o-mini", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.model != "gpt-4o-mini" {
		t.Errorf("model = %q", c.model)
	}
}
