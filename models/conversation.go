package models

import "time"

// Conversation is keyed by the caller-supplied id; it is created on the first
// message and never deleted. Message insertion order defines "most recent".
type Conversation struct {
	ID         string `gorm:"primaryKey;size:64"`
	PropertyID string `gorm:"size:64;index"`
	Title      string `gorm:"size:200"`
	CreatedAt  time.Time
	Messages   []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}
