package analyze

import (
    "context"
    "errors"
    "fmt"
    "strings"

    openai "github.com/sashabaranov/go-openai"

    "github.com/hyperifyio/newslens/internal/llm"
)

const (
    // DefaultModel is requested when Analyzer.Model is empty.
    DefaultModel = llm.DefaultOpenAIModel
    // DefaultTemperature is the configured default. Analyzer forwards its
    // Temperature field unchanged, so a zero value is sent as zero.
    DefaultTemperature = float32(0.3)
)

// responseDirective is appended to every instruction to shape the answer.
const responseDirective = "(Respond in concise bullet points. Keep total length under 100 words.)"

// ErrNoChoices indicates the model returned no completion.
var ErrNoChoices = errors.New("model returned no choices")

// Analyzer asks the model one question about an article per call.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
    Client      llm.Client
    Model       string
    Temperature float32
    // MaxTokens is forwarded when positive.
    MaxTokens int
}

// Analyze sends exactly one single-turn completion request and returns the
// first choice with surrounding whitespace removed. The article is passed
// through untruncated. Completion errors are returned to the caller.
func (a *Analyzer) Analyze(ctx context.Context, instruction, article string) (string, error) {
    if a == nil || a.Client == nil {
        return "", errors.New("analyzer not configured")
    }
    req := openai.ChatCompletionRequest{
        Model: a.model(),
        Messages: []openai.ChatCompletionMessage{
            {Role: openai.ChatMessageRoleUser, Content: BuildPrompt(instruction, article)},
        },
        Temperature: a.Temperature,
        N:           1,
    }
    if a.MaxTokens > 0 {
        req.MaxTokens = a.MaxTokens
    }
    resp, err := a.Client.CreateChatCompletion(ctx, req)
    if err != nil {
        return "", fmt.Errorf("completion: %w", err)
    }
    if len(resp.Choices) == 0 {
        return "", ErrNoChoices
    }
    return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (a *Analyzer) model() string {
    if strings.TrimSpace(a.Model) != "" {
        return a.Model
    }
    return DefaultModel
}

// BuildPrompt interpolates the article and instruction into the fixed template.
func BuildPrompt(instruction, article string) string {
    var sb strings.Builder
    sb.WriteString("ARTICLE:\n")
    sb.WriteString(article)
    sb.WriteString("\n\nTASK: ")
    sb.WriteString(instruction)
    sb.WriteString(" ")
    sb.WriteString(responseDirective)
    return sb.String()
}
