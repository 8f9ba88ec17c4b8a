package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GCP_PROJECT_ID", "my-project")
	t.Setenv("BIGQUERY_DATASET", "weather")
	t.Setenv("BIGQUERY_TABLE", "observations")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Model != "gpt-5" {
		t.Errorf("expected default model gpt-5, got %s", cfg.Model)
	}
	if cfg.Temperature != 0.1 {
		t.Errorf("expected default temperature 0.1, got %v", cfg.Temperature)
	}
	if cfg.MaxQueryResults != 1000 {
		t.Errorf("expected default max query results 1000, got %d", cfg.MaxQueryResults)
	}
	if cfg.MaxToolRounds != 8 {
		t.Errorf("expected default max tool rounds 8, got %d", cfg.MaxToolRounds)
	}
	if cfg.TurnTimeout != 2*time.Minute {
		t.Errorf("expected default turn timeout 2m, got %v", cfg.TurnTimeout)
	}
	if cfg.SchemaSource != "introspected" {
		t.Errorf("expected default schema source introspected, got %s", cfg.SchemaSource)
	}
	if !cfg.EnableValidationTool {
		t.Error("expected validation tool enabled by default")
	}
	if cfg.TableProjectID != "my-project" {
		t.Errorf("expected table project to fall back to GCP_PROJECT_ID, got %s", cfg.TableProjectID)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("BQ_TABLE_PROJECT_ID", "shared-data-project")
	t.Setenv("MAX_TOOL_ROUNDS", "3")
	t.Setenv("TURN_TIMEOUT", "30s")
	t.Setenv("ENABLE_VALIDATION_TOOL", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("model override ignored, got %s", cfg.Model)
	}
	if cfg.MaxToolRounds != 3 {
		t.Errorf("max tool rounds override ignored, got %d", cfg.MaxToolRounds)
	}
	if cfg.TurnTimeout != 30*time.Second {
		t.Errorf("turn timeout override ignored, got %v", cfg.TurnTimeout)
	}
	if cfg.EnableValidationTool {
		t.Error("validation tool should be disabled")
	}
	if got := cfg.FullTableName(); got != "shared-data-project.weather.observations" {
		t.Errorf("unexpected full table name %s", got)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "APIKey") {
		t.Errorf("expected APIKey in error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"temperature too high", func(c *Config) { c.Temperature = 3.0 }},
		{"zero tool rounds", func(c *Config) { c.MaxToolRounds = 0 }},
		{"unknown schema source", func(c *Config) { c.SchemaSource = "guess" }},
		{"static source without path", func(c *Config) { c.SchemaSource = "static"; c.StaticSchemaPath = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
