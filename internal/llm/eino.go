package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"
)

// EinoProvider adapts an eino chat model to Client. Only the fields of the
// request that a single-turn completion needs are forwarded: messages,
// model, temperature and max tokens.
type EinoProvider struct {
	Model model.BaseChatModel
}

func (p *EinoProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if p == nil || p.Model == nil {
		return openai.ChatCompletionResponse{}, errors.New("eino provider not configured")
	}
	msgs := make([]*schema.Message, 0, len(request.Messages))
	for _, m := range request.Messages {
		msgs = append(msgs, &schema.Message{Role: schema.RoleType(m.Role), Content: m.Content})
	}
	opts := []model.Option{model.WithTemperature(request.Temperature)}
	if request.Model != "" {
		opts = append(opts, model.WithModel(request.Model))
	}
	if request.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(request.MaxTokens))
	}

	out, err := p.Model.Generate(ctx, msgs, opts...)
	if err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("eino generate: %w", err)
	}
	if out == nil {
		return openai.ChatCompletionResponse{Model: request.Model}, nil
	}
	resp := openai.ChatCompletionResponse{
		Model: request.Model,
		Choices: []openai.ChatCompletionChoice{{
			Index:   0,
			Message: openai.ChatCompletionMessage{Role: string(out.Role), Content: out.Content},
		}},
	}
	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		u := out.ResponseMeta.Usage
		resp.Usage = openai.Usage{PromptTokens: u.PromptTokens, CompletionTokens: u.CompletionTokens, TotalTokens: u.TotalTokens}
	}
	return resp, nil
}
