package llmclient

import (
	"log/slog"
	"time"
)

// Config holds configuration for the chat completions client.
type Config struct {
	APIKey     string        // Bearer token for the completion service
	BaseURL    string        // Base URL of the OpenAI-compatible endpoint
	Logger     *slog.Logger  // Logger for debugging
	Timeout    time.Duration // HTTP timeout
	RetryCount int           // Number of retries for failed requests
	RetryDelay time.Duration // Delay between retries
}
