package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	SenderTenant    = "TENANT"
	SenderLandlord  = "LANDLORD"
	SenderAssistant = "AI"
)

// Message is append-only; it is never mutated after creation.
type Message struct {
	ID             uint   `gorm:"primaryKey"`
	ConversationID string `gorm:"index;size:64;not null"`
	Role           string `gorm:"size:20;not null"` // "user" or "assistant"
	SenderID       string `gorm:"size:64"`
	SenderRole     string `gorm:"size:20"` // TENANT, LANDLORD or AI
	Text           string `gorm:"type:text;not null"`
	Timestamp      time.Time

	// Side-channel metadata for assistant turns.
	IncidentID   string `gorm:"size:36"`
	SourcesJSON  string `gorm:"type:text"`
	IsSuggestion bool
}
