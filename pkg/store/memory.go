package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"homeguard/models"
)

// Memory is an in-memory implementation of the repository interfaces. Used in
// tests and as a fallback when no database is configured.
type Memory struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message
	incidents     map[string]*models.Incident
	events        []models.CalendarEvent
	nextMessageID uint
}

func NewMemory() *Memory {
	return &Memory{
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]models.Message),
		incidents:     make(map[string]*models.Incident),
	}
}

func (m *Memory) EnsureConversation(id, propertyID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[id]; ok {
		return nil
	}
	if len(title) > 30 {
		title = title[:30] + "..."
	}
	m.conversations[id] = &models.Conversation{ID: id, PropertyID: propertyID, Title: title, CreatedAt: time.Now()}
	return nil
}

func (m *Memory) AppendMessage(msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextMessageID++
	msg.ID = m.nextMessageID
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], *msg)
	return nil
}

func (m *Memory) Messages(conversationID string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.messages[conversationID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *Memory) Conversation(id string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.conversations[id]
	if !ok {
		return nil, nil
	}
	out := *conv
	out.Messages = append([]models.Message(nil), m.messages[id]...)
	return &out, nil
}

func (m *Memory) Create(inc *models.Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = time.Now()
	}
	cp := *inc
	m.incidents[inc.ID] = &cp
	return nil
}

func (m *Memory) AppendInfo(id, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inc, ok := m.incidents[id]
	if !ok {
		return nil
	}
	inc.Description = fmt.Sprintf("%s\n\n%s (%s):\n%s", inc.Description, additionalInfoHeader, time.Now().Format(time.RFC3339), text)
	inc.AwaitingMoreInfo = false
	return nil
}

func (m *Memory) FindOpen(conversationID string) (*models.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inc := range m.incidents {
		if inc.ConversationID == conversationID && inc.Status == models.IncidentReported && inc.AwaitingMoreInfo {
			out := *inc
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) Get(id string) (*models.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inc, ok := m.incidents[id]
	if !ok {
		return nil, nil
	}
	out := *inc
	return &out, nil
}

func (m *Memory) List(propertyID string) ([]models.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Incident
	for _, inc := range m.incidents {
		if propertyID == "" || inc.PropertyID == propertyID {
			out = append(out, *inc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[j].CreatedAt.Before(out[i].CreatedAt) })
	return out, nil
}

func (m *Memory) MarkScheduled(id, startTime string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inc, ok := m.incidents[id]
	if !ok {
		return nil
	}
	inc.Status = models.IncidentScheduled
	if inc.ScheduledAt == nil {
		if t, err := time.Parse(time.RFC3339, startTime); err == nil {
			inc.ScheduledAt = &t
		} else {
			now := time.Now()
			inc.ScheduledAt = &now
		}
	}
	return nil
}

func (m *Memory) CreateEvent(e *models.CalendarEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	m.events = append(m.events, *e)
	return nil
}

func (m *Memory) ListEvents(propertyID string) ([]models.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CalendarEvent
	for _, e := range m.events {
		if propertyID == "" || e.PropertyID == propertyID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}
