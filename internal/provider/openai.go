package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var errEmptyCompletion = errors.New("completion contained no choices")

// Fixed sampling parameters for the hosted backend.
const (
	openaiTemperature      = 0.7
	openaiTopP             = 0.9
	openaiPresencePenalty  = 0.1
	openaiFrequencyPenalty = 0.2
)

// OpenAI is the hosted chat-completion backend.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a hosted backend with an explicit request timeout.
func NewOpenAI(apiKey, model string, timeout time.Duration) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Name returns the backend identifier.
func (o *OpenAI) Name() string { return "openai" }

// Complete sends a chat-completion request with fixed sampling parameters.
func (o *OpenAI) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:            o.model,
		Messages:         toOpenAIMessages(messages),
		Temperature:      openaiTemperature,
		TopP:             openaiTopP,
		PresencePenalty:  openaiPresencePenalty,
		FrequencyPenalty: openaiFrequencyPenalty,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &Error{Backend: o.Name(), Op: "chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Backend: o.Name(), Op: "chat completion", Err: errEmptyCompletion}
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

var _ Provider = (*OpenAI)(nil)
