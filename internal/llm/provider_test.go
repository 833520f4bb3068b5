package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"
)

type fakeEinoModel struct {
	gotMsgs []*schema.Message
	gotOpts *model.Options
	reply   *schema.Message
	err     error
}

func (f *fakeEinoModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.gotMsgs = input
	f.gotOpts = model.GetCommonOptions(nil, opts...)
	return f.reply, f.err
}

func (f *fakeEinoModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestEinoProvider_ForwardsMessagesAndTemperature(t *testing.T) {
	fm := &fakeEinoModel{reply: &schema.Message{Role: schema.Assistant, Content: "• neutral tone"}}
	p := &EinoProvider{Model: fm}

	resp, err := p.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model:       "test-model",
		Temperature: 0.3,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "• neutral tone" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(fm.gotMsgs) != 1 || fm.gotMsgs[0].Role != schema.User || fm.gotMsgs[0].Content != "hello" {
		t.Fatalf("unexpected forwarded messages: %+v", fm.gotMsgs)
	}
	if fm.gotOpts.Temperature == nil || *fm.gotOpts.Temperature != 0.3 {
		t.Fatalf("temperature not forwarded: %+v", fm.gotOpts.Temperature)
	}
	if fm.gotOpts.Model == nil || *fm.gotOpts.Model != "test-model" {
		t.Fatalf("model not forwarded: %+v", fm.gotOpts.Model)
	}
}

func TestEinoProvider_WrapsError(t *testing.T) {
	p := &EinoProvider{Model: &fakeEinoModel{err: errors.New("401 unauthorized")}}
	_, err := p.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

type fakeMessages struct {
	got sdk.MessageNewParams
	msg *sdk.Message
	err error
}

func (f *fakeMessages) New(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error) {
	f.got = params
	return f.msg, f.err
}

func TestAnthropicProvider_MapsRequestAndResponse(t *testing.T) {
	fm := &fakeMessages{msg: &sdk.Message{
		ID:      "msg_1",
		Model:   sdk.Model("claude-test"),
		Content: []sdk.ContentBlockUnion{{Type: "text", Text: "• one"}, {Type: "text", Text: "\n• two"}},
	}}
	p := &AnthropicProvider{Messages: fm}

	resp, err := p.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model:       "claude-test",
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "be brief"},
			{Role: openai.ChatMessageRoleUser, Content: "ARTICLE: x"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resp.Choices[0].Message.Content; got != "• one\n• two" {
		t.Fatalf("content = %q", got)
	}
	if fm.got.MaxTokens != DefaultAnthropicMaxTokens {
		t.Fatalf("max tokens = %d", fm.got.MaxTokens)
	}
	if len(fm.got.System) != 1 || fm.got.System[0].Text != "be brief" {
		t.Fatalf("system not mapped: %+v", fm.got.System)
	}
	if len(fm.got.Messages) != 1 {
		t.Fatalf("expected one user message, got %d", len(fm.got.Messages))
	}
	if string(fm.got.Model) != "claude-test" {
		t.Fatalf("model = %q", fm.got.Model)
	}
}

func TestNew_OpenAIAgainstStubServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": "ok"}}},
		})
	}))
	defer srv.Close()

	c, err := New(context.Background(), Options{Provider: "openai", BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "m"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := c.(ModelLister); !ok {
		t.Fatalf("openai provider should list models")
	}
	resp, err := c.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model:    "m",
		Messages: []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if resp.Choices[0].Message.Content != "ok" {
		t.Fatalf("unexpected content %q", resp.Choices[0].Message.Content)
	}
}

func TestNew_Providers(t *testing.T) {
	for _, name := range []string{"", "openai", "anthropic", "eino"} {
		if _, err := New(context.Background(), Options{Provider: name, Model: "m", APIKey: "k", BaseURL: "http://127.0.0.1:1/v1"}); err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
	}
	if _, err := New(context.Background(), Options{Provider: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestAnthropicProvider_CapsTemperature(t *testing.T) {
	fm := &fakeMessages{msg: &sdk.Message{Content: []sdk.ContentBlockUnion{{Type: "text", Text: "ok"}}}}
	p := &AnthropicProvider{Messages: fm}

	if _, err := p.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{Model: "claude-test", Temperature: 1.7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fm.got.Temperature.Value; got != MaxAnthropicTemperature {
		t.Fatalf("temperature = %v, want %v", got, MaxAnthropicTemperature)
	}
}

func TestDefaultModel(t *testing.T) {
	cases := map[string]string{
		"":           DefaultOpenAIModel,
		"openai":     DefaultOpenAIModel,
		"eino":       DefaultOpenAIModel,
		"anthropic":  DefaultAnthropicModel,
		" Anthropic": DefaultAnthropicModel,
	}
	for provider, want := range cases {
		if got := DefaultModel(provider); got != want {
			t.Fatalf("DefaultModel(%q) = %q, want %q", provider, got, want)
		}
	}
}
