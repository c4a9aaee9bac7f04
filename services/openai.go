package services

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"bilgin-chat/config"
	"bilgin-chat/routing"
)

// ChatMessage is one entry of a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is an OpenAI-compatible request body.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// ChatCompletionResponse is the subset of the reply we read.
type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// ChatCompletionClient calls an OpenAI-compatible /chat/completions endpoint
// (Novita DeepSeek, OpenAI).
type ChatCompletionClient struct {
	name   string
	url    string
	apiKey string
	model  string
	client *http.Client
}

func NewChatCompletionClient(name string, cfg config.ProviderConfig) *ChatCompletionClient {
	return &ChatCompletionClient{
		name:   name,
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: newHTTPClient(cfg.Timeout),
	}
}

// Complete sends a system and user message and returns the first choice.
func (c *ChatCompletionClient) Complete(ctx context.Context, in routing.Completion) (string, error) {
	messages := make([]ChatMessage, 0, 2)
	if in.System != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: in.System})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: in.User})

	temperature := in.Temperature
	payload := ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   in.MaxTokens,
		Temperature: &temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var resp ChatCompletionResponse
	if err := postJSON(ctx, c.client, c.name, c.url, headers, payload, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}

	slog.Info("Chat completion generated",
		"provider", c.name,
		"model", c.model,
		"inputTokens", resp.Usage.PromptTokens,
		"outputTokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

// localizerPrompt tells the model to rewrite raw web findings as a clean
// Turkish answer without naming its sources.
const localizerPrompt = `Sen bir Türkçe yanıt editörüsün. Sana bir kullanıcı sorusu ve web aramasından derlenmiş ham bilgiler verilecek. ` +
	`Bu bilgileri kullanarak soruya doğrudan, akıcı ve doğal Türkçe ile kısa bir yanıt yaz. ` +
	`Kaynak, web sitesi, bağlantı ya da "web araştırması sonucunda" gibi ifadeler kullanma. ` +
	`Markdown biçimlendirmesi kullanma. Bilgiler soruyu yanıtlamıyorsa bunu kısaca belirt.`

// Localizer rewrites raw web search synthesis into a Turkish answer.
type Localizer struct {
	completer *ChatCompletionClient
	maxTokens int
}

func NewLocalizer(completer *ChatCompletionClient) *Localizer {
	return &Localizer{completer: completer, maxTokens: 800}
}

func (l *Localizer) Localize(ctx context.Context, question, raw string) (string, error) {
	return l.completer.Complete(ctx, routing.Completion{
		System:      localizerPrompt,
		User:        "Soru: " + question + "\n\nHam bilgiler:\n" + raw,
		MaxTokens:   l.maxTokens,
		Temperature: 0.3,
	})
}
