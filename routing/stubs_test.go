package routing

import (
	"context"
	"sync"
)

type stubRetriever struct {
	mu       sync.Mutex
	reply    string
	err      error
	panicMsg string
	calls    int
	messages []string
}

func (s *stubRetriever) Chat(ctx context.Context, message, sessionID string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.messages = append(s.messages, message)
	s.mu.Unlock()
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.reply, s.err
}

func (s *stubRetriever) lastMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return ""
	}
	return s.messages[len(s.messages)-1]
}

type stubCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	block bool
	calls int
	last  Completion
}

func (s *stubCompleter) Complete(ctx context.Context, c Completion) (string, error) {
	s.mu.Lock()
	s.calls++
	s.last = c
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

type stubSearcher struct {
	results []SearchResult
	err     error
	calls   int
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	s.calls++
	s.queries = append(s.queries, query)
	return s.results, s.err
}

type stubLocalizer struct {
	reply string
	err   error
	calls int
	raw   string
}

func (s *stubLocalizer) Localize(ctx context.Context, question, raw string) (string, error) {
	s.calls++
	s.raw = raw
	return s.reply, s.err
}

type stubs struct {
	pro       *stubRetriever
	free      *stubRetriever
	llm       *stubCompleter
	search    *stubSearcher
	localizer *stubLocalizer
}

func newStubs() *stubs {
	return &stubs{
		pro:  &stubRetriever{reply: "Bilgi bankasından ayrıntılı bir yanıt."},
		free: &stubRetriever{reply: "Dostum, sen bunu kesinlikle başarabilirsin!"},
		llm:  &stubCompleter{reply: "Genel model tarafından üretilen yanıt."},
		search: &stubSearcher{results: []SearchResult{
			{Title: "Döviz", Snippet: "Dolar bugün 34,50 TL seviyesinde.", Link: "https://example.com/doviz"},
		}},
		localizer: &stubLocalizer{reply: "Web araştırması sonucunda, dolar kuru bugün 34,50 TL."},
	}
}

func (s *stubs) providers() Providers {
	return Providers{
		ProRAG:    s.pro,
		FreeRAG:   s.free,
		LLM:       s.llm,
		Search:    s.search,
		Localizer: s.localizer,
	}
}

func (s *stubs) router() *Router {
	cfg := DefaultConfig()
	cfg.Personalities = map[Mode]string{
		ModeFriend:  "Samimi ve motive edici bir arkadaş gibi konuş.",
		ModeTeacher: "Adım adım öğreten bir öğretmen gibi konuş.",
	}
	return NewRouter(s.providers(), cfg, nil)
}
