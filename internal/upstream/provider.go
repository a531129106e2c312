package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

// Generation parameters applied to every answer call. Callers cannot
// override them; the public contract exposes no tuning knobs.
const (
	MaxOutputTokens = 300
	Temperature     = 0.2
)

// Default model IDs used when the configuration leaves the model blank.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
)

// Provider identifies the answer provider and how to reach it. Type is
// one of openai, openai-compatible, anthropic, openrouter; unknown
// values fall back to openai.
type Provider struct {
	Type     string
	APIKey   string
	Endpoint string
	Model    string
}

func isOpenAICompatibleProviderType(raw string) bool {
	t := normalizeProviderType(raw)
	return t == "openai-compatible" || t == "openaicompatible"
}

func isAnthropicProviderType(raw string) bool {
	return normalizeProviderType(raw) == "anthropic"
}

func isOpenRouterProviderType(raw string) bool {
	return normalizeProviderType(raw) == "openrouter"
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

// Generate runs one synchronous completion and returns the trimmed
// answer text. One upstream call per invocation, never retried; a
// failure surfaces as an error for the caller to map.
func Generate(ctx context.Context, provider Provider, systemPrompt, prompt string) (string, error) {
	if strings.TrimSpace(provider.APIKey) == "" {
		return "", errors.New("upstream api key is empty")
	}

	switch {
	case isAnthropicProviderType(provider.Type):
		return generateAnthropic(ctx, provider, systemPrompt, prompt)
	case isOpenAICompatibleProviderType(provider.Type), isOpenRouterProviderType(provider.Type):
		return generateChatCompletions(ctx, provider, systemPrompt, prompt)
	default:
		return generateOpenAI(ctx, provider, systemPrompt, prompt)
	}
}

func generateOpenAI(ctx context.Context, provider Provider, systemPrompt, prompt string) (string, error) {
	model := strings.TrimSpace(provider.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(provider.APIKey)),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(provider.Endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)

	messages := make([]openaiclient.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, openaiclient.SystemMessage(systemPrompt))
	}
	messages = append(messages, openaiclient.UserMessage(prompt))

	resp, err := client.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model:       openaiclient.ChatModel(model),
		Messages:    messages,
		MaxTokens:   openaiclient.Int(MaxOutputTokens),
		Temperature: openaiclient.Float(Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from upstream")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response from upstream")
	}
	return text, nil
}

func generateAnthropic(ctx context.Context, provider Provider, systemPrompt, prompt string) (string, error) {
	model := strings.TrimSpace(provider.Model)
	if model == "" {
		model = DefaultAnthropicModel
	}

	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(strings.TrimSpace(provider.APIKey)),
		anthropicoption.WithMaxRetries(0),
	}
	if endpoint := strings.TrimSpace(provider.Endpoint); endpoint != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
	}
	client := anthropicclient.NewClient(opts...)

	params := anthropicclient.MessageNewParams{
		Model:       anthropicclient.Model(model),
		MaxTokens:   MaxOutputTokens,
		Temperature: anthropicclient.Float(Temperature),
		Messages: []anthropicclient.MessageParam{
			anthropicclient.NewUserMessage(anthropicclient.NewTextBlock(prompt)),
		},
	}
	if strings.TrimSpace(systemPrompt) != "" {
		params.System = []anthropicclient.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var full strings.Builder
	for _, block := range resp.Content {
		if block.Type != "text" || block.Text == "" {
			continue
		}
		full.WriteString(block.Text)
	}
	text := strings.TrimSpace(full.String())
	if text == "" {
		return "", errors.New("empty response from upstream")
	}
	return text, nil
}

// generateChatCompletions calls a chat-completions HTTP endpoint
// directly. Serves both the openai-compatible and openrouter types;
// openrouter differs only in its default endpoint.
func generateChatCompletions(ctx context.Context, provider Provider, systemPrompt, prompt string) (string, error) {
	endpoint := normalizeChatCompletionsEndpoint(provider.Endpoint, isOpenRouterProviderType(provider.Type))
	model := strings.TrimSpace(provider.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}

	messages := make([]map[string]string, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, map[string]string{
			"role":    "system",
			"content": systemPrompt,
		})
	}
	messages = append(messages, map[string]string{
		"role":    "user",
		"content": prompt,
	})

	body, _ := json.Marshal(map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"max_tokens":  MaxOutputTokens,
		"temperature": Temperature,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(provider.APIKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("upstream error: %s", strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("upstream error: %s", result.Error.Message)
	}
	if strings.TrimSpace(result.Message) != "" && len(result.Choices) == 0 {
		return "", fmt.Errorf("upstream error: %s", result.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("empty response from upstream")
	}
	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response from upstream")
	}
	return text, nil
}

// normalizeOpenAIBaseURL shapes an endpoint override for the OpenAI
// SDK, which expects the /v1 prefix in the base URL.
func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path += "/v1"
		}
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

// normalizeChatCompletionsEndpoint shapes an endpoint for the raw HTTP
// path, which appends /v1/chat/completions itself. A configured /v1
// suffix is stripped so both spellings work.
func normalizeChatCompletionsEndpoint(raw string, openRouter bool) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		if openRouter {
			return "https://openrouter.ai/api"
		}
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		cleaned := strings.TrimRight(base, "/")
		return strings.TrimSuffix(cleaned, "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
