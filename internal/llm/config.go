package llm

import (
	"fmt"
	"time"
)

// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Config contains configuration for the LLM client.
type Config struct {
	// APIKey is the generation service API key
	APIKey string

	// BaseURL is the chat completions API base URL
	// Default: https://openrouter.ai/api/v1
	BaseURL string

	// DefaultModel is the model to use when a call does not name one
	// Example: openai/gpt-4o
	DefaultModel string

	// Timeout is the HTTP request timeout, covering the whole streamed body
	// Default: 120 seconds
	Timeout time.Duration
}

// Validate checks that required config fields are set.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("APIKey is required")
	}

	if c.BaseURL == "" {
		return fmt.Errorf("BaseURL is required")
	}

	if c.DefaultModel == "" {
		return fmt.Errorf("DefaultModel is required")
	}

	return nil
}

// SetDefaults fills in default values for optional fields.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}
