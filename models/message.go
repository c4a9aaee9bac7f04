package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxMessageLength is the longest accepted user message, in characters.
const MaxMessageLength = 10000

// Message is one turn of a conversation.
type Message struct {
	ID             string    `bson:"id" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	Role           string    `bson:"role" json:"role"` // "user" or "assistant"
	Content        string    `bson:"content" json:"content"`
	Provider       string    `bson:"provider,omitempty" json:"provider,omitempty"`
	Category       string    `bson:"category,omitempty" json:"category,omitempty"`
	QuestionLabel  string    `bson:"question_label,omitempty" json:"question_label,omitempty"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}

// MessageCreate is the body of POST /api/conversations/:conversationID/messages
type MessageCreate struct {
	Content          string `json:"content"`
	Mode             string `json:"mode"`             // AnythingLLM mode, "chat" or "query"
	Version          string `json:"version"`          // "pro" or "free"
	ConversationMode string `json:"conversationMode"` // "normal", "friend", ...
}
