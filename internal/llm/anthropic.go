package llm

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultAnthropicMaxTokens is used when the request leaves MaxTokens unset;
// the Messages API requires a value.
const DefaultAnthropicMaxTokens = 1024

// MaxAnthropicTemperature is the upper bound the Messages API accepts.
const MaxAnthropicTemperature = 1.0

// MessagesAPI is the subset of the Anthropic SDK the adapter calls.
type MessagesAPI interface {
	New(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// AnthropicProvider adapts the Anthropic Messages API to Client. System
// messages become the system prompt; user and assistant turns are forwarded.
type AnthropicProvider struct {
	Messages MessagesAPI
}

func (p *AnthropicProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if p == nil || p.Messages == nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("anthropic provider not configured")
	}
	params := toAnthropicParams(request)
	msg, err := p.Messages.New(ctx, params)
	if err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("anthropic: create message: %w", err)
	}

	var text strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			text.WriteString(b.Text)
		}
	}
	return openai.ChatCompletionResponse{
		ID:    msg.ID,
		Model: string(msg.Model),
		Choices: []openai.ChatCompletionChoice{{
			Index:        0,
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text.String()},
			FinishReason: openai.FinishReason(msg.StopReason),
		}},
		Usage: openai.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}

func toAnthropicParams(request openai.ChatCompletionRequest) sdk.MessageNewParams {
	maxTokens := int64(request.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = DefaultAnthropicMaxTokens
	}
	temperature := float64(request.Temperature)
	if temperature > MaxAnthropicTemperature {
		temperature = MaxAnthropicTemperature
	}
	params := sdk.MessageNewParams{
		Model:       sdk.Model(request.Model),
		MaxTokens:   maxTokens,
		Temperature: sdk.Float(temperature),
	}
	for _, m := range request.Messages {
		switch m.Role {
		case openai.ChatMessageRoleSystem:
			params.System = append(params.System, sdk.TextBlockParam{Text: m.Content})
		case openai.ChatMessageRoleAssistant:
			params.Messages = append(params.Messages, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		}
	}
	return params
}
