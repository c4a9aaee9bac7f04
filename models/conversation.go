package models

import "time"

// Conversation is one chat thread. IDs are string UUIDs.
type Conversation struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ConversationCreate is the body of POST /api/conversations
type ConversationCreate struct {
	Title string `json:"title"`
}
