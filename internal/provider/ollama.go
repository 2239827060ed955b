package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Ollama is the local inference backend speaking the Ollama chat API.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates a local backend against baseURL (e.g. http://localhost:11434).
func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the backend identifier.
func (o *Ollama) Name() string { return "ollama" }

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []Message     `json:"messages"`
	Options  ollamaOptions `json:"options"`
	Stream   bool          `json:"stream"`
}

type ollamaOptions struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Complete posts the chat request and decodes the completion.
//
// Some Ollama builds still newline-stream the body even with stream=false,
// so a response that is not one JSON object is decoded from its first line.
func (o *Ollama) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    o.model,
		Messages: messages,
		Options: ollamaOptions{
			Temperature:   0.7,
			TopP:          0.9,
			RepeatPenalty: 1.05,
		},
		Stream: false,
	})
	if err != nil {
		return "", &Error{Backend: o.Name(), Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Backend: o.Name(), Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", &Error{Backend: o.Name(), Op: "chat request", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Backend: o.Name(), Op: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Backend: o.Name(), Op: "chat request", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var out ollamaChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		first, _, _ := strings.Cut(strings.TrimSpace(string(raw)), "\n")
		if lineErr := json.Unmarshal([]byte(first), &out); lineErr != nil {
			return "", &Error{Backend: o.Name(), Op: "decode response", Err: err}
		}
	}
	return out.Message.Content, nil
}

var _ Provider = (*Ollama)(nil)
