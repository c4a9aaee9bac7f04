package services

import (
	"context"
	"net/http"
	"strings"

	"bilgin-chat/config"
	"bilgin-chat/routing"
)

// SerperRequest is the Serper search request body.
type SerperRequest struct {
	Query    string `json:"q"`
	Num      int    `json:"num"`
	Country  string `json:"gl"`
	Language string `json:"hl"`
}

// SerperResponse is the subset of a Serper reply we read.
type SerperResponse struct {
	AnswerBox *struct {
		Title   string `json:"title"`
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// SerperClient runs Turkish-localised Google searches through Serper.
type SerperClient struct {
	url     string
	apiKey  string
	num     int
	client  *http.Client
	limiter *RateLimiter
}

func NewSerperClient(cfg config.ProviderConfig, rpm int) *SerperClient {
	return &SerperClient{
		url:     strings.TrimRight(cfg.BaseURL, "/") + "/search",
		apiKey:  cfg.APIKey,
		num:     8,
		client:  newHTTPClient(cfg.Timeout),
		limiter: NewRateLimiter(rpm),
	}
}

// Search returns the answer box (if any) followed by organic results.
func (s *SerperClient) Search(ctx context.Context, query string) ([]routing.SearchResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload := SerperRequest{Query: query, Num: s.num, Country: "tr", Language: "tr"}
	headers := map[string]string{"X-API-KEY": s.apiKey}

	var resp SerperResponse
	if err := postJSON(ctx, s.client, "serper", s.url, headers, payload, &resp); err != nil {
		return nil, err
	}

	results := make([]routing.SearchResult, 0, len(resp.Organic)+1)
	if box := resp.AnswerBox; box != nil {
		text := box.Answer
		if text == "" {
			text = box.Snippet
		}
		if text != "" {
			results = append(results, routing.SearchResult{Title: box.Title, Snippet: text})
		}
	}
	for _, o := range resp.Organic {
		results = append(results, routing.SearchResult{Title: o.Title, Snippet: o.Snippet, Link: o.Link})
	}
	return results, nil
}
