package llm

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/jdsort/internal/model"
)

const defaultOllamaModel = "llama3.2:1b"

// NewBackend creates a new inference backend based on configuration.
// An empty provider selects Ollama.
func NewBackend(config Config) (Backend, error) {
	switch strings.ToLower(config.Provider) {
	case "ollama", "":
		return NewOllamaBackend(config)

	case "openai":
		return NewOpenAIBackend(config)

	case "anthropic", "claude":
		return NewAnthropicBackend(config)

	default:
		return nil, fmt.Errorf("unknown inference provider: %s (supported: ollama, openai, anthropic)", config.Provider)
	}
}

// DefaultModel returns the model a provider uses when none is configured.
// Unknown providers have none.
func DefaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case "ollama", "":
		return defaultOllamaModel
	case "openai":
		return openai.GPT4oMini
	case "anthropic", "claude":
		return defaultAnthropicModel
	default:
		return ""
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  modelConfig.HTTPProxy,
		HTTPSProxy: modelConfig.HTTPSProxy,
		NoProxy:    modelConfig.NoProxy,
	}
}
