package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOllamaCompleteSingleObject(t *testing.T) {
	t.Parallel()

	var gotReq ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"message":{"content":"sahi hai bro"}}`))
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "phi3", 5*time.Second)
	got, err := o.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "sahi hai bro" {
		t.Errorf("got %q", got)
	}

	if gotReq.Model != "phi3" {
		t.Errorf("model = %q, want phi3", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("stream must be false")
	}
	if gotReq.Options.Temperature != 0.7 || gotReq.Options.TopP != 0.9 || gotReq.Options.RepeatPenalty != 1.05 {
		t.Errorf("unexpected sampling options: %+v", gotReq.Options)
	}
	if len(gotReq.Messages) != 2 {
		t.Errorf("forwarded %d messages, want 2", len(gotReq.Messages))
	}
}

func TestOllamaCompleteNewlineDelimited(t *testing.T) {
	t.Parallel()

	// Some Ollama builds newline-stream despite stream=false; only the
	// first line counts.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{\"message\":{\"content\":\"pehla\"}}\n{\"message\":{\"content\":\"dusra\"}}\n"))
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "phi3", 5*time.Second)
	got, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "pehla" {
		t.Errorf("got %q, want first line content", got)
	}
}

func TestOllamaCompleteNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "phi3", 5*time.Second)
	_, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("error is not *Error: %v", err)
	}
	if perr.Backend != "ollama" {
		t.Errorf("backend = %q, want ollama", perr.Backend)
	}
}

func TestOllamaCompleteGarbageBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "phi3", 5*time.Second)
	if _, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestErrorWrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &Error{Backend: "openai", Op: "chat completion", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
	if err.Error() == "" {
		t.Error("Error() should describe the failure")
	}
}
