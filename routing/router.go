package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrNoResults is returned by the web step when the search came back empty.
var ErrNoResults = errors.New("web search returned no results")

// Config holds the router's tunables. Provider endpoints and keys live in the
// provider clients; the router only needs the per-provider time budget.
type Config struct {
	Timeouts      map[ProviderID]time.Duration
	MaxTokens     int
	Temperature   float64
	SystemPrompt  string
	Personalities map[Mode]string
	// MaxFileChars caps the file text injected into a prompt.
	MaxFileChars int
	// SearchSnippets is how many web results feed the localizer.
	SearchSnippets int
}

// DefaultConfig returns timeouts in the 8-30s range used in production.
func DefaultConfig() Config {
	return Config{
		Timeouts: map[ProviderID]time.Duration{
			ProviderRAGPro:    30 * time.Second,
			ProviderRAGFree:   30 * time.Second,
			ProviderLLM:       30 * time.Second,
			ProviderWebSearch: 8 * time.Second,
			ProviderLocalizer: 15 * time.Second,
		},
		MaxTokens:      1500,
		Temperature:    0.7,
		SystemPrompt:   DefaultSystemPrompt,
		MaxFileChars:   8000,
		SearchSnippets: 5,
	}
}

// Router picks the provider chain for a question and runs it. It holds no
// mutable state and is safe for concurrent use.
type Router struct {
	providers Providers
	cfg       Config
	logger    *slog.Logger
}

// NewRouter creates a Router. Zero fields of cfg fall back to DefaultConfig.
func NewRouter(providers Providers, cfg Config, logger *slog.Logger) *Router {
	def := DefaultConfig()
	if cfg.Timeouts == nil {
		cfg.Timeouts = def.Timeouts
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = def.SystemPrompt
	}
	if cfg.MaxFileChars <= 0 {
		cfg.MaxFileChars = def.MaxFileChars
	}
	if cfg.SearchSnippets <= 0 {
		cfg.SearchSnippets = def.SearchSnippets
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{providers: providers, cfg: cfg, logger: logger}
}

// plan is the outcome of classification for one request.
type plan struct {
	req     Request
	message string
	// category is the recorded label and may be file_related; route ignores
	// the file and picks the chain.
	category Category
	route    Category
	label    QuestionLabel
	withFile bool
}

// Route answers one user turn. It never fails: when every provider in the
// chain fails, Result.Text is a fixed Turkish apology and Exhausted is set.
func (r *Router) Route(ctx context.Context, req Request) Result {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Result{Text: ApologyEmpty, Provider: ProviderNone, Category: CategoryRegular, QuestionCategory: LabelGeneral, Exhausted: true}
	}
	req.Context.Tier = ParseTier(string(req.Context.Tier))
	req.Context.Mode = ParseMode(string(req.Context.Mode))

	hasFile := req.File != nil && strings.TrimSpace(req.File.Text) != ""
	pl := plan{
		req:      req,
		message:  question,
		category: Classify(question, hasFile),
		route:    Classify(question, false),
		label:    QuestionCategory(question),
		withFile: IsFileRelated(question, hasFile),
	}
	if pl.withFile {
		pl.message = fileMessage(req.File, question, r.cfg.MaxFileChars)
	}

	chain := r.chainFor(pl)
	routingDecisions.WithLabelValues(string(req.Context.Tier), string(pl.route)).Inc()
	r.logger.Info("Routing question",
		"sessionID", req.SessionID,
		"tier", req.Context.Tier,
		"mode", req.Context.Mode,
		"category", pl.category,
		"route", pl.route,
		"label", pl.label,
		"withFile", pl.withFile,
		"chainLength", len(chain),
	)

	reply, attempts, ok := chain.Run(ctx, r.logger)
	result := Result{
		Provider:         reply.Provider,
		Category:         pl.category,
		QuestionCategory: pl.label,
		Attempts:         attempts,
	}
	if !ok {
		chainExhausted.WithLabelValues(string(req.Context.Tier)).Inc()
		result.Text = apologyFor(attempts)
		result.Exhausted = true
		r.logger.Warn("All providers failed",
			"sessionID", req.SessionID,
			"category", pl.category,
			"attempts", len(attempts),
		)
		return result
	}

	result.Text = r.finish(reply)
	if strings.TrimSpace(result.Text) == "" {
		result.Text = ApologyGeneral
		result.Exhausted = true
	}
	return result
}

// chainFor maps tier, mode and category to the ordered provider steps.
func (r *Router) chainFor(pl plan) Chain {
	rc := pl.req.Context

	if rc.Tier != TierPro {
		if pl.route == CategoryCurrentInfo {
			return Chain{r.webStep(pl), r.llmStep(pl, currentInfoFallbackNote)}
		}
		return Chain{r.llmStep(pl, r.personality(rc.Mode))}
	}

	// Conversation modes take priority over every other pro branch.
	if rc.Mode != ModeNormal {
		personality := r.personality(rc.Mode)
		return Chain{
			r.ragStep(ProviderRAGFree, r.providers.FreeRAG, personalityMessage(personality, pl.message), pl.req.SessionID),
			r.llmStep(pl, personality),
		}
	}

	switch pl.route {
	case CategoryCurrentInfo:
		return Chain{r.webStep(pl), r.llmStep(pl, currentInfoFallbackNote)}
	case CategoryCreative:
		return Chain{r.llmStep(pl, "")}
	default:
		// formula_technical, casual and regular questions start at the knowledge base
		return Chain{
			r.ragStep(ProviderRAGPro, r.providers.ProRAG, pl.message, pl.req.SessionID),
			r.llmStep(pl, ""),
		}
	}
}

func (r *Router) personality(mode Mode) string {
	if mode == ModeNormal {
		return ""
	}
	return r.cfg.Personalities[mode]
}

func (r *Router) timeout(id ProviderID) time.Duration {
	if d, ok := r.cfg.Timeouts[id]; ok && d > 0 {
		return d
	}
	return 30 * time.Second
}

func (r *Router) ragStep(id ProviderID, rag Retriever, message, sessionID string) Step {
	return Step{
		Provider: id,
		Gated:    true,
		Call: func(ctx context.Context) (ProviderReply, error) {
			if rag == nil {
				return ProviderReply{}, ErrProviderMissing
			}
			ctx, cancel := context.WithTimeout(ctx, r.timeout(id))
			defer cancel()
			text, err := rag.Chat(ctx, message, sessionID)
			return ProviderReply{Text: text, Provider: id}, err
		},
	}
}

// llmStep calls the general LLM. extraSystem is appended to the base system
// prompt (a personality or an instruction).
func (r *Router) llmStep(pl plan, extraSystem string) Step {
	system := r.cfg.SystemPrompt
	if extraSystem != "" {
		system += "\n\n" + extraSystem
	}
	temperature := r.cfg.Temperature
	if pl.label == LabelMath || pl.route == CategoryFormulaTechnical {
		temperature = 0
	}
	completion := Completion{
		System:      system,
		User:        pl.message,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: temperature,
	}
	return Step{
		Provider: ProviderLLM,
		Call: func(ctx context.Context) (ProviderReply, error) {
			if r.providers.LLM == nil {
				return ProviderReply{}, ErrProviderMissing
			}
			ctx, cancel := context.WithTimeout(ctx, r.timeout(ProviderLLM))
			defer cancel()
			text, err := r.providers.LLM.Complete(ctx, completion)
			return ProviderReply{Text: text, Provider: ProviderLLM}, err
		},
	}
}

// webStep searches the web and has the localizer rewrite the findings. A
// localizer failure falls back to the scrubbed raw synthesis inside the step;
// a search failure fails the step.
func (r *Router) webStep(pl plan) Step {
	question := pl.req.Question
	return Step{
		Provider: ProviderWebSearch,
		Call: func(ctx context.Context) (ProviderReply, error) {
			if r.providers.Search == nil {
				return ProviderReply{}, ErrProviderMissing
			}
			searchCtx, cancel := context.WithTimeout(ctx, r.timeout(ProviderWebSearch))
			results, err := r.providers.Search.Search(searchCtx, question)
			cancel()
			if err != nil {
				return ProviderReply{}, fmt.Errorf("web search: %w", err)
			}
			raw := SynthesizeSnippets(results, r.cfg.SearchSnippets)
			if strings.TrimSpace(raw) == "" {
				return ProviderReply{}, ErrNoResults
			}

			if r.providers.Localizer == nil {
				return ProviderReply{Text: raw, Provider: ProviderWebSearch}, nil
			}
			locCtx, cancel := context.WithTimeout(ctx, r.timeout(ProviderLocalizer))
			defer cancel()
			localized, err := r.providers.Localizer.Localize(locCtx, question, raw)
			if err != nil || strings.TrimSpace(localized) == "" {
				r.logger.Warn("Localizer failed, using raw web synthesis", "error", err)
				providerCalls.WithLabelValues(string(ProviderLocalizer), OutcomeError).Inc()
				return ProviderReply{Text: raw, Provider: ProviderWebSearch}, nil
			}
			providerCalls.WithLabelValues(string(ProviderLocalizer), OutcomeSuccess).Inc()
			return ProviderReply{Text: localized, Provider: ProviderLocalizer}, nil
		},
	}
}

// finish applies post-processing to a successful reply. Source scrubbing and
// error normalization only apply to the web path.
func (r *Router) finish(reply ProviderReply) string {
	text := StripMarkup(reply.Text)
	if reply.Provider == ProviderWebSearch || reply.Provider == ProviderLocalizer {
		text = NormalizeProviderErrors(ScrubSourceAttribution(text))
	}
	return text
}

func apologyFor(attempts []Attempt) string {
	if len(attempts) == 0 {
		return ApologyGeneral
	}
	if last := attempts[len(attempts)-1]; errors.Is(last.Err, context.DeadlineExceeded) {
		return ApologyTimeout
	}
	return ApologyGeneral
}
