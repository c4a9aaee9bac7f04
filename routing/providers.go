package routing

import "context"

// Retriever is a retrieval-augmented chat service (AnythingLLM workspace).
type Retriever interface {
	Chat(ctx context.Context, message, sessionID string) (string, error)
}

// Completion is a single chat-completion call.
type Completion struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Completer is a general purpose LLM.
type Completer interface {
	Complete(ctx context.Context, c Completion) (string, error)
}

// SearchResult is one organic web result.
type SearchResult struct {
	Title   string
	Snippet string
	Link    string
}

// Searcher is a web search API.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Localizer rewrites raw web findings into a fluent Turkish answer without
// source attributions.
type Localizer interface {
	Localize(ctx context.Context, question, raw string) (string, error)
}

// Providers groups the collaborators a Router may call. A nil provider makes
// every step that needs it fail, which moves the chain on.
type Providers struct {
	ProRAG    Retriever
	FreeRAG   Retriever
	LLM       Completer
	Search    Searcher
	Localizer Localizer
}
