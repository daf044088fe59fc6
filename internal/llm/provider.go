package llm

import (
	"context"
	"errors"
)

// ErrNoModel is returned by Generate when neither the request nor the
// backend configuration names a model
var ErrNoModel = errors.New("no model selected")

// Backend defines the interface for inference services
type Backend interface {
	// Name returns the backend name
	Name() string

	// Probe checks that the service is reachable
	Probe(ctx context.Context) error

	// ListModels returns the models the service can currently serve
	ListModels(ctx context.Context) ([]string, error)

	// Generate produces raw text for a prompt
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// GenerateRequest contains the input for one completion
type GenerateRequest struct {
	// Model is the specific model to use (backend-specific)
	Model string

	// Prompt is the user prompt
	Prompt string

	// System is an optional system prompt
	System string

	// MaxTokens limits the response length
	MaxTokens int

	// Sampling parameters; zero means backend default
	Temperature float64
	TopP        float64
}

// GenerateResponse contains the raw completion
type GenerateResponse struct {
	// Text is the raw generated text, possibly wrapped in commentary
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds inference backend configuration
type Config struct {
	// Provider name: "ollama", "openai", "anthropic"
	Provider string

	// Model name (backend-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "ollama",
		Model:     defaultOllamaModel,
		BaseURL:   "http://127.0.0.1:11434",
		Timeout:   30,
		MaxTokens: 500,
	}
}

func (c Config) maxTokens(requested int) int {
	if requested > 0 {
		return requested
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 500
}

func (c Config) model(requested string) string {
	if requested != "" {
		return requested
	}
	return c.Model
}
