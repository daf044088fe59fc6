package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ppiankov/jdsort/internal/util"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicBackend implements the Backend interface for Anthropic Claude models
type AnthropicBackend struct {
	client anthropic.Client
	config Config
}

// NewAnthropicBackend creates a new Anthropic backend
func NewAnthropicBackend(config Config) (*AnthropicBackend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		}),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")+"/"))
	}

	if config.Model == "" {
		config.Model = defaultAnthropicModel
	}

	return &AnthropicBackend{
		client: anthropic.NewClient(opts...),
		config: config,
	}, nil
}

// Name returns the backend name
func (b *AnthropicBackend) Name() string {
	return "anthropic"
}

// Probe lists models, which needs a valid key but spends no tokens
func (b *AnthropicBackend) Probe(ctx context.Context) error {
	if _, err := b.client.Models.List(ctx, anthropic.ModelListParams{}); err != nil {
		return fmt.Errorf("Anthropic API check failed: %w", err)
	}
	return nil
}

// ListModels returns the first page of model identifiers
func (b *AnthropicBackend) ListModels(ctx context.Context) ([]string, error) {
	page, err := b.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	models := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

// Generate sends a single user message and returns the first text block
func (b *AnthropicBackend) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.config.model(req.Model)),
		MaxTokens: int64(b.config.maxTokens(req.MaxTokens)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	message, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return &GenerateResponse{
				Text:       block.Text,
				Model:      string(message.Model),
				TokensUsed: int(message.Usage.InputTokens + message.Usage.OutputTokens),
			}, nil
		}
	}
	return nil, fmt.Errorf("no text content in Anthropic response")
}
