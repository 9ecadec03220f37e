package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// writeChoice writes a chat completion response with a single choice.
func writeChoice(w http.ResponseWriter, model, content string, in, out int) {
	_, _ = w.Write([]byte(`{"model":` + quote(model) +
		`,"choices":[{"message":{"content":` + quote(content) + `}}]` +
		`,"usage":{"prompt_tokens":` + itoa(in) + `,"completion_tokens":` + itoa(out) + `}}`))
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestOpenAIProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}

		var req openaiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.Model != "gpt-4o" {
			t.Errorf("model = %q, want %q", req.Model, "gpt-4o")
		}
		if len(req.Messages) != 2 || req.Messages[1].Content != "역할을 지정해 줘" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		writeChoice(w, "gpt-4o", "좋은 프롬프트입니다", 10, 5)
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", WithBaseURL(server.URL))

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: "coach"},
			{Role: "user", Content: "역할을 지정해 줘"},
		},
		Model: "gpt-4o",
	})

	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "좋은 프롬프트입니다" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.InputTokens != 10 {
		t.Errorf("input_tokens = %d, want 10", resp.InputTokens)
	}
	if resp.OutputTokens != 5 {
		t.Errorf("output_tokens = %d, want 5", resp.OutputTokens)
	}
}

func TestOpenAIProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", WithBaseURL(server.URL))

	_, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})

	if err == nil {
		t.Fatal("Complete() should return error on API error")
	}
}

func TestOpenAIProvider_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", WithBaseURL(server.URL))

	_, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})

	if err == nil {
		t.Fatal("Complete() should return error when no choices")
	}
}

func TestCompatibleProviders(t *testing.T) {
	tests := []struct {
		name      string
		build     func(url string) *OpenAIProvider
		wantPath  string
		wantModel string
		wantAuth  string
		wantTitle string
	}{
		{
			name:      "deepseek",
			build:     func(url string) *OpenAIProvider { return NewDeepSeekProvider("ds-key", WithBaseURL(url)) },
			wantPath:  "/chat/completions",
			wantModel: "deepseek-chat",
			wantAuth:  "Bearer ds-key",
		},
		{
			name:      "openrouter",
			build:     func(url string) *OpenAIProvider { return NewOpenRouterProvider("or-key", WithBaseURL(url)) },
			wantPath:  "/chat/completions",
			wantModel: "qwen/qwen-2.5-72b-instruct",
			wantAuth:  "Bearer or-key",
			wantTitle: "P&AI Academy",
		},
		{
			name:      "ollama",
			build:     func(url string) *OpenAIProvider { return NewOllamaProvider(url + "/") },
			wantPath:  "/v1/chat/completions",
			wantModel: "llama3.2",
			wantAuth:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != tt.wantPath {
					t.Errorf("path = %q, want %q", r.URL.Path, tt.wantPath)
				}
				if got := r.Header.Get("Authorization"); got != tt.wantAuth {
					t.Errorf("Authorization = %q, want %q", got, tt.wantAuth)
				}
				if got := r.Header.Get("X-Title"); got != tt.wantTitle {
					t.Errorf("X-Title = %q, want %q", got, tt.wantTitle)
				}
				var req openaiRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req.Model != tt.wantModel {
					t.Errorf("model = %q, want %q", req.Model, tt.wantModel)
				}
				writeChoice(w, req.Model, tt.name+" response", 1, 1)
			}))
			defer server.Close()

			p := tt.build(server.URL)
			if p.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.name)
			}
			resp, err := p.Complete(context.Background(), CompletionRequest{
				Messages: []Message{{Role: "user", Content: "hello"}},
			})
			if err != nil {
				t.Fatalf("Complete() error = %v", err)
			}
			if resp.Content != tt.name+" response" {
				t.Errorf("content = %q", resp.Content)
			}
		})
	}
}

func TestOpenAIProvider_HealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
	}{
		{"healthy", http.StatusOK, false},
		{"unhealthy", http.StatusUnauthorized, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/models" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			provider := NewOpenAIProvider("test-key", WithBaseURL(server.URL))
			err := provider.HealthCheck(context.Background())

			if (err != nil) != tt.wantErr {
				t.Errorf("HealthCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenAIProvider_DefaultModel(t *testing.T) {
	var receivedModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openaiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		receivedModel = req.Model
		writeChoice(w, req.Model, "ok", 1, 1)
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", WithBaseURL(server.URL))

	// No model specified, so the provider default is used.
	_, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})

	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if receivedModel != "gpt-4o-mini" {
		t.Errorf("default model = %q, want %q", receivedModel, "gpt-4o-mini")
	}
}
