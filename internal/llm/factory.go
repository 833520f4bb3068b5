package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	openai "github.com/sashabaranov/go-openai"
)

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderEino      = "eino"
	ProviderAnthropic = "anthropic"
)

// Models used when none is configured.
const (
	DefaultOpenAIModel    = "gpt-3.5-turbo"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
)

// DefaultModel returns the model to request from provider when the
// configuration leaves the model empty.
func DefaultModel(provider string) string {
	if strings.ToLower(strings.TrimSpace(provider)) == ProviderAnthropic {
		return DefaultAnthropicModel
	}
	return DefaultOpenAIModel
}

// Options selects and configures a completion backend.
type Options struct {
	Provider   string
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// New builds the Client for opts.Provider. An empty API key is accepted;
// the backend reports the authentication failure on the first call.
func New(ctx context.Context, opts Options) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderOpenAI:
		cfg := openai.DefaultConfig(opts.APIKey)
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
		if opts.HTTPClient != nil {
			cfg.HTTPClient = opts.HTTPClient
		}
		return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}, nil

	case ProviderEino:
		cm, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
			BaseURL:    opts.BaseURL,
			APIKey:     opts.APIKey,
			Model:      opts.Model,
			HTTPClient: opts.HTTPClient,
		})
		if err != nil {
			return nil, fmt.Errorf("eino chat model: %w", err)
		}
		return &EinoProvider{Model: cm}, nil

	case ProviderAnthropic:
		reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
		if opts.BaseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
		}
		if opts.HTTPClient != nil {
			reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
		}
		client := sdk.NewClient(reqOpts...)
		return &AnthropicProvider{Messages: &client.Messages}, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %q", opts.Provider)
	}
}
