package models

import "time"

// UploadedFile is an attachment stored for a conversation. ExtractedText is
// what gets injected into file-related questions.
type UploadedFile struct {
	ID             string    `bson:"id" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	FileName       string    `bson:"file_name" json:"file_name"`
	FileType       string    `bson:"file_type" json:"file_type"`
	Path           string    `bson:"path" json:"-"`
	Size           int64     `bson:"size" json:"size"`
	ExtractedText  string    `bson:"extracted_text" json:"-"`
	UploadedAt     time.Time `bson:"uploaded_at" json:"uploaded_at"`
}
