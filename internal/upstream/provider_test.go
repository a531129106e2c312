package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type chatCompletionsRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestGenerate_ChatCompletions(t *testing.T) {
	var got chatCompletionsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("expected path /v1/chat/completions, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Photosynthesis converts light into energy."}},
			},
		})
	}))
	defer server.Close()

	provider := Provider{
		Type:     "openai-compatible",
		APIKey:   "test-key",
		Endpoint: server.URL,
		Model:    "gpt-4o-mini",
	}
	answer, err := Generate(context.Background(), provider, "You are a helpful assistant.", "What is photosynthesis?")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if answer != "Photosynthesis converts light into energy." {
		t.Errorf("unexpected answer: %q", answer)
	}

	if got.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %q", got.Model)
	}
	if got.MaxTokens != 300 {
		t.Errorf("expected max_tokens 300, got %d", got.MaxTokens)
	}
	if got.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", got.Temperature)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("unexpected message roles: %s, %s", got.Messages[0].Role, got.Messages[1].Role)
	}
	if !strings.Contains(got.Messages[1].Content, "What is photosynthesis?") {
		t.Errorf("user message missing question: %q", got.Messages[1].Content)
	}
}

func TestGenerate_BlankSystemPromptOmitted(t *testing.T) {
	var got chatCompletionsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "OK"}},
			},
		})
	}))
	defer server.Close()

	provider := Provider{Type: "openai-compatible", APIKey: "test-key", Endpoint: server.URL}
	if _, err := Generate(context.Background(), provider, "   ", "Say OK please and thanks"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("expected a single user message, got %+v", got.Messages)
	}
}

func TestGenerate_APIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "model overloaded"},
		})
	}))
	defer server.Close()

	provider := Provider{Type: "openai-compatible", APIKey: "test-key", Endpoint: server.URL}
	_, err := Generate(context.Background(), provider, "", "What is photosynthesis?")
	if err == nil {
		t.Fatal("expected error from error body")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("error should carry upstream message, got: %v", err)
	}
}

func TestGenerate_HTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	provider := Provider{Type: "openai-compatible", APIKey: "bad-key", Endpoint: server.URL}
	_, err := Generate(context.Background(), provider, "", "What is photosynthesis?")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error should carry response body, got: %v", err)
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	provider := Provider{Type: "openai-compatible", APIKey: "test-key", Endpoint: server.URL}
	_, err := Generate(context.Background(), provider, "", "What is photosynthesis?")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if !strings.Contains(err.Error(), "empty response") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerate_WhitespaceAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  \n  "}},
			},
		})
	}))
	defer server.Close()

	provider := Provider{Type: "openai-compatible", APIKey: "test-key", Endpoint: server.URL}
	_, err := Generate(context.Background(), provider, "", "What is photosynthesis?")
	if err == nil {
		t.Fatal("expected error for whitespace-only answer")
	}
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	provider := Provider{Type: "openai-compatible", APIKey: "   ", Endpoint: server.URL}
	_, err := Generate(context.Background(), provider, "", "What is photosynthesis?")
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	if called {
		t.Error("no request should be sent without a key")
	}
}

func TestGenerate_OpenRouterUsesChatCompletionsPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("expected path /v1/chat/completions, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "routed"}},
			},
		})
	}))
	defer server.Close()

	provider := Provider{Type: "openrouter", APIKey: "test-key", Endpoint: server.URL}
	answer, err := Generate(context.Background(), provider, "", "Where does this go?")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if answer != "routed" {
		t.Errorf("unexpected answer: %q", answer)
	}
}

func TestGenerate_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	provider := Provider{Type: "openai-compatible", APIKey: "test-key", Endpoint: server.URL}
	start := time.Now()
	_, err := Generate(ctx, provider, "", "What is photosynthesis?")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Error("call did not respect the context deadline")
	}
}

func TestNormalizeChatCompletionsEndpoint(t *testing.T) {
	cases := []struct {
		raw        string
		openRouter bool
		want       string
	}{
		{"", false, "https://api.openai.com"},
		{"", true, "https://openrouter.ai/api"},
		{"https://api.example.com", false, "https://api.example.com"},
		{"https://api.example.com/", false, "https://api.example.com"},
		{"https://api.example.com/v1", false, "https://api.example.com"},
		{"https://api.example.com/v1/", false, "https://api.example.com"},
		{"https://api.example.com/proxy/v1", false, "https://api.example.com/proxy"},
		{"https://custom.example.com", true, "https://custom.example.com"},
	}
	for _, tc := range cases {
		if got := normalizeChatCompletionsEndpoint(tc.raw, tc.openRouter); got != tc.want {
			t.Errorf("normalizeChatCompletionsEndpoint(%q, %v) = %q, want %q", tc.raw, tc.openRouter, got, tc.want)
		}
	}
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"https://api.example.com", "https://api.example.com/v1"},
		{"https://api.example.com/", "https://api.example.com/v1"},
		{"https://api.example.com/v1", "https://api.example.com/v1"},
		{"https://api.example.com/proxy", "https://api.example.com/proxy/v1"},
	}
	for _, tc := range cases {
		if got := normalizeOpenAIBaseURL(tc.raw); got != tc.want {
			t.Errorf("normalizeOpenAIBaseURL(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestProviderTypePredicates(t *testing.T) {
	if !isOpenAICompatibleProviderType("OpenAI-Compatible") {
		t.Error("case should not matter for provider types")
	}
	if !isOpenAICompatibleProviderType("openai_compatible") {
		t.Error("underscores should normalize to hyphens")
	}
	if !isAnthropicProviderType("  Anthropic ") {
		t.Error("surrounding whitespace should be ignored")
	}
	if !isOpenRouterProviderType("OpenRouter") {
		t.Error("openrouter should be recognized")
	}
	if isAnthropicProviderType("openai") || isOpenRouterProviderType("openai") {
		t.Error("openai must not match other provider types")
	}
}
