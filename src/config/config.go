// Package config resolves process configuration from the environment once at
// startup. The resulting value is passed explicitly into each component
// constructor; nothing reads ambient state after Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the process.
type Config struct {
	// Completion service
	APIKey      string  `validate:"required"`
	BaseURL     string  `validate:"omitempty,url"`
	Model       string  `validate:"required"`
	Temperature float64 `validate:"gte=0,lte=2"`

	// Warehouse
	ProjectID       string `validate:"required"`
	TableProjectID  string `validate:"required"`
	Dataset         string `validate:"required"`
	Table           string `validate:"required"`
	MaxQueryResults int    `validate:"gt=0"`

	// Agent loop
	MaxToolRounds        int           `validate:"gt=0"`
	TurnTimeout          time.Duration `validate:"gt=0"`
	EnableValidationTool bool

	// Schema context
	SchemaSource     string `validate:"oneof=introspected static"`
	StaticSchemaPath string `validate:"required_if=SchemaSource static"`

	// Session
	MaxHistoryTurns int `validate:"gt=0"`
	DatabasePath    string

	LogLevel string `validate:"oneof=debug info warn error"`
}

// Load reads configuration from the environment, applying defaults and
// validating the result. A .env file in the working directory is honored
// when present.
func Load() (*Config, error) {
	// best-effort; absence of a .env file is the normal case
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:               os.Getenv("OPENAI_API_KEY"),
		BaseURL:              getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:                getEnv("OPENAI_MODEL", "gpt-5"),
		Temperature:          getEnvFloat("TEMPERATURE", 0.1),
		ProjectID:            os.Getenv("GCP_PROJECT_ID"),
		TableProjectID:       os.Getenv("BQ_TABLE_PROJECT_ID"),
		Dataset:              os.Getenv("BIGQUERY_DATASET"),
		Table:                os.Getenv("BIGQUERY_TABLE"),
		MaxQueryResults:      getEnvInt("MAX_QUERY_RESULTS", 1000),
		MaxToolRounds:        getEnvInt("MAX_TOOL_ROUNDS", 8),
		TurnTimeout:          getEnvDuration("TURN_TIMEOUT", 2*time.Minute),
		EnableValidationTool: getEnvBool("ENABLE_VALIDATION_TOOL", true),
		SchemaSource:         getEnv("SCHEMA_SOURCE", "introspected"),
		StaticSchemaPath:     os.Getenv("SCHEMA_STATIC_PATH"),
		MaxHistoryTurns:      getEnvInt("MAX_HISTORY_TURNS", 200),
		DatabasePath:         getEnv("DATABASE_PATH", DefaultDatabasePath()),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}

	// queries read from a shared table in another project by default
	if cfg.TableProjectID == "" {
		cfg.TableProjectID = cfg.ProjectID
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, returning the first violation found.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("config: invalid %s (failed %q check)", e.Field(), e.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// FullTableName returns the fully qualified table identifier used in queries.
func (c *Config) FullTableName() string {
	return fmt.Sprintf("%s.%s.%s", c.TableProjectID, c.Dataset, c.Table)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
