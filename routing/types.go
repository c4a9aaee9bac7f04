package routing

import "strings"

// Tier selects the provider set and the routing rules for a request
type Tier string

const (
	TierPro  Tier = "pro"
	TierFree Tier = "free"
)

// ParseTier maps a request "version" value to a Tier. Anything unknown is free.
func ParseTier(v string) Tier {
	if strings.EqualFold(strings.TrimSpace(v), string(TierPro)) {
		return TierPro
	}
	return TierFree
}

// Mode is a conversation personality tag
type Mode string

const (
	ModeNormal     Mode = "normal"
	ModeFriend     Mode = "friend"
	ModeRealistic  Mode = "realistic"
	ModeCoach      Mode = "coach"
	ModeLawyer     Mode = "lawyer"
	ModeTeacher    Mode = "teacher"
	ModeMinimalist Mode = "minimalist"
)

var knownModes = map[Mode]bool{
	ModeFriend:     true,
	ModeRealistic:  true,
	ModeCoach:      true,
	ModeLawyer:     true,
	ModeTeacher:    true,
	ModeMinimalist: true,
}

// ParseMode maps a request conversationMode value to a Mode. Empty, "chat" and
// unknown values are all ModeNormal.
func ParseMode(v string) Mode {
	m := Mode(strings.ToLower(strings.TrimSpace(v)))
	if knownModes[m] {
		return m
	}
	return ModeNormal
}

// Category is the classification of a question. file_related is recorded as a
// label only; the provider chain never depends on it.
type Category string

const (
	CategoryCasual           Category = "casual"
	CategoryCurrentInfo      Category = "current_info"
	CategoryFileRelated      Category = "file_related"
	CategoryFormulaTechnical Category = "formula_technical"
	CategoryCreative         Category = "general_knowledge_creative"
	CategoryRegular          Category = "regular"
)

// ProviderID names an external service that produced a reply
type ProviderID string

const (
	ProviderRAGPro    ProviderID = "rag_pro"
	ProviderRAGFree   ProviderID = "rag_free"
	ProviderLLM       ProviderID = "general_llm"
	ProviderWebSearch ProviderID = "web_search"
	ProviderLocalizer ProviderID = "localizer"
	ProviderNone      ProviderID = "none"
)

// RoutingContext is fixed for the duration of one routing decision.
type RoutingContext struct {
	Mode Mode
	Tier Tier
}

// FileContext carries the text extracted from a file uploaded to the conversation.
type FileContext struct {
	Name string
	Text string
}

// Request is one user turn handed to the Router.
type Request struct {
	Question  string
	SessionID string
	Context   RoutingContext
	// File is the latest upload of the conversation, nil when there is none.
	File *FileContext
}

// ProviderReply is the raw text a provider returned
type ProviderReply struct {
	Text     string
	Provider ProviderID
}

// Attempt records one step of a fallback chain.
type Attempt struct {
	Provider ProviderID
	Outcome  string
	Err      error
}

// Result is what the Router hands back to the caller. Text is never empty.
type Result struct {
	Text             string
	Provider         ProviderID
	Category         Category
	QuestionCategory QuestionLabel
	Attempts         []Attempt
	Exhausted        bool
}
