package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"interviewer/internal/llm"
)

// Generation backends.
const (
	BackendHTTP   = "http"
	BackendGenkit = "genkit"
)

// Config holds the application configuration.
type Config struct {
	LogLevel       string // debug, info, warn, error
	LogFormat      string // json, text
	APIKey         string // Required to start an interview
	BaseURL        string // Chat completions API base URL
	InterviewModel string // Model for interviewer replies
	FeedbackModel  string // Model for the final evaluation
	Backend        string // http or genkit
	Timeout        time.Duration
	MaxTurns       int
	TranscriptDir  string // Empty disables transcript export
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		logLevel = "debug"
	}

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	maxTurns, err := getEnvInt("MAX_TURNS", DefaultMaxTurns)
	if err != nil {
		return nil, err
	}
	if maxTurns < 1 {
		return nil, fmt.Errorf("MAX_TURNS must be at least 1, got %d", maxTurns)
	}

	timeout, err := getEnvDuration("LLM_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getEnvOrDefault("LLM_BACKEND", BackendHTTP))
	if backend != BackendHTTP && backend != BackendGenkit {
		return nil, fmt.Errorf("LLM_BACKEND must be %q or %q, got %q", BackendHTTP, BackendGenkit, backend)
	}

	cfg := &Config{
		LogLevel:       logLevel,
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "json"),
		APIKey:         apiKey,
		BaseURL:        getEnvOrDefault("LLM_BASE_URL", llm.DefaultBaseURL),
		InterviewModel: getEnvOrDefault("INTERVIEW_MODEL", "openai/gpt-4o"),
		FeedbackModel:  getEnvOrDefault("FEEDBACK_MODEL", "openai/gpt-4o"),
		Backend:        backend,
		Timeout:        timeout,
		MaxTurns:       maxTurns,
		TranscriptDir:  os.Getenv("TRANSCRIPT_DIR"),
	}

	// The API key is checked when the generation client is built, so
	// commands that never call the model work without one.
	return cfg, nil
}

// LLMConfig returns the client configuration derived from cfg.
func (c *Config) LLMConfig() *llm.Config {
	return &llm.Config{
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		DefaultModel: c.InterviewModel,
		Timeout:      c.Timeout,
	}
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
