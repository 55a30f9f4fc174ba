// Package store owns persistence for conversations, incidents and calendar
// events behind small repository interfaces. The orchestrator receives these
// injected rather than touching a database directly; a gorm-backed
// implementation serves production and an in-memory one serves tests.
package store

import "homeguard/models"

// ConversationStore appends to and reads conversation transcripts.
// Conversations are created on first message and never deleted.
type ConversationStore interface {
	EnsureConversation(id, propertyID, title string) error
	AppendMessage(m *models.Message) error
	Messages(conversationID string) ([]models.Message, error)
	Conversation(id string) (*models.Conversation, error)
}

// IncidentStore owns incident records. Lookups return (nil, nil) on a miss;
// an unknown id is never an error.
type IncidentStore interface {
	Create(inc *models.Incident) error
	// AppendInfo adds a delimited additional-details block to the incident's
	// description and clears AwaitingMoreInfo. Silent no-op for unknown ids.
	AppendInfo(id, text string) error
	// FindOpen returns the incident for this conversation that is still
	// awaiting more info (status reported, AwaitingMoreInfo=true), if any.
	FindOpen(conversationID string) (*models.Incident, error)
	Get(id string) (*models.Incident, error)
	List(propertyID string) ([]models.Incident, error)
	// MarkScheduled transitions reported -> scheduled when a calendar event
	// is linked to the incident.
	MarkScheduled(id, startTime string) error
}

// CalendarStore owns scheduled visit events.
type CalendarStore interface {
	CreateEvent(e *models.CalendarEvent) error
	ListEvents(propertyID string) ([]models.CalendarEvent, error)
}

// additionalInfoHeader delimits appended tenant detail inside an incident
// description. Shared by both implementations.
const additionalInfoHeader = "Additional details"
