package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"bilgin-chat/config"
)

// AnythingLLMRequest is the workspace chat request body.
type AnythingLLMRequest struct {
	Message   string `json:"message"`
	Mode      string `json:"mode"`
	SessionID string `json:"sessionId"`
}

// AnythingLLMResponse is the workspace chat reply.
type AnythingLLMResponse struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	TextResponse string  `json:"textResponse"`
	Error        *string `json:"error"`
	Sources      []struct {
		Title string `json:"title"`
	} `json:"sources"`
}

// AnythingLLMClient talks to one AnythingLLM workspace chat endpoint. The pro
// tier uses the document workspace, the free tier the local model deployment.
type AnythingLLMClient struct {
	name   string
	url    string
	apiKey string
	mode   string
	client *http.Client
}

// NewAnythingLLMClient creates a client. cfg.BaseURL is the full workspace
// chat URL.
func NewAnythingLLMClient(name string, cfg config.ProviderConfig) *AnythingLLMClient {
	return &AnythingLLMClient{
		name:   name,
		url:    cfg.BaseURL,
		apiKey: cfg.APIKey,
		mode:   "chat",
		client: newHTTPClient(cfg.Timeout),
	}
}

// Chat sends one message. sessionID keeps the workspace thread per conversation.
func (c *AnythingLLMClient) Chat(ctx context.Context, message, sessionID string) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	payload := AnythingLLMRequest{Message: message, Mode: c.mode, SessionID: sessionID}

	var resp AnythingLLMResponse
	if err := postJSON(ctx, c.client, c.name, c.url, headers, payload, &resp); err != nil {
		return "", err
	}

	if resp.Error != nil && *resp.Error != "" {
		return "", fmt.Errorf("%s: %s", c.name, *resp.Error)
	}
	if strings.TrimSpace(resp.TextResponse) == "" {
		return "", ErrEmptyResponse
	}

	slog.Debug("AnythingLLM response generated",
		"provider", c.name,
		"sessionID", sessionID,
		"sources", len(resp.Sources),
		"length", len(resp.TextResponse),
	)
	return resp.TextResponse, nil
}
