package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"
)

// ErrEmptyResponse is returned when a provider answered 200 with no text.
var ErrEmptyResponse = errors.New("provider returned an empty response")

// StatusError is a non-2xx reply from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

const maxErrorBody = 300

func truncateBody(body []byte) string {
	s := string(body)
	if utf8.RuneCountInString(s) <= maxErrorBody {
		return s
	}
	return string([]rune(s)[:maxErrorBody]) + "..."
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// postJSON marshals payload, POSTs it and decodes a 2xx body into out.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read body: %w", provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("Provider API error", "provider", provider, "status", resp.StatusCode, "body", truncateBody(body))
		return &StatusError{Provider: provider, StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s decode response: %w", provider, err)
	}
	return nil
}
