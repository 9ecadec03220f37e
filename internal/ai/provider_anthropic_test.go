package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewAnthropicProvider_EmptyKey(t *testing.T) {
	if _, err := NewAnthropicProvider(""); err == nil {
		t.Fatal("NewAnthropicProvider() accepted an empty key")
	}
}

func TestAnthropicProvider_Complete(t *testing.T) {
	var got anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s, want /messages", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "ak-test" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("anthropic-version = %q", r.Header.Get("anthropic-version"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"model":"claude-haiku-4-5",` +
			`"content":[{"type":"thinking","text":""},{"type":"text","text":"맥락을 추가하세요."}],` +
			`"usage":{"input_tokens":12,"output_tokens":8}}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider("ak-test", WithAnthropicBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewAnthropicProvider() error = %v", err)
	}
	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Task: TaskPromptAnalysis,
		Messages: []Message{
			{Role: "system", Content: "너는 프롬프트 코치야."},
			{Role: "user", Content: "시 써줘"},
		},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got.System != "너는 프롬프트 코치야." {
		t.Errorf("system = %q, want the coach prompt", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, want the user turn only", got.Messages)
	}
	if got.Model != "claude-haiku-4-5" || got.MaxTokens != anthropicMaxTokens {
		t.Errorf("model/max_tokens = %q/%d", got.Model, got.MaxTokens)
	}
	if resp.Content != "맥락을 추가하세요." {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 8 {
		t.Errorf("usage = %d/%d, want 12/8", resp.InputTokens, resp.OutputTokens)
	}
}

func TestAnthropicProvider_Complete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"overloaded", http.StatusServiceUnavailable, `{"type":"error"}`},
		{"no text", http.StatusOK, `{"content":[]}`},
		{"bad json", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider, _ := NewAnthropicProvider("ak-test", WithAnthropicBaseURL(server.URL))
			if _, err := provider.Complete(context.Background(), CompletionRequest{
				Messages: []Message{{Role: "user", Content: "hi"}},
			}); err == nil {
				t.Error("Complete() error = nil")
			}
		})
	}
}

func TestAnthropicProvider_HealthCheck(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusUnauthorized} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/models" {
				t.Errorf("%s %s, want GET /models", r.Method, r.URL.Path)
			}
			w.WriteHeader(status)
		}))
		provider, _ := NewAnthropicProvider("ak-test", WithAnthropicBaseURL(server.URL))
		err := provider.HealthCheck(context.Background())
		server.Close()

		if (err != nil) != (status != http.StatusOK) {
			t.Errorf("status %d: HealthCheck() error = %v", status, err)
		}
	}
}
