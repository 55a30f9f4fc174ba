package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"homeguard/models"
)

// Gorm implements the repository interfaces on a *gorm.DB.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) EnsureConversation(id, propertyID, title string) error {
	var conv models.Conversation
	err := g.db.Where("id = ?", id).First(&conv).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if len(title) > 30 {
		title = title[:30] + "..."
	}
	conv = models.Conversation{ID: id, PropertyID: propertyID, Title: title, CreatedAt: time.Now()}
	return g.db.Create(&conv).Error
}

func (g *Gorm) AppendMessage(m *models.Message) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return g.db.Create(m).Error
}

func (g *Gorm) Messages(conversationID string) ([]models.Message, error) {
	var msgs []models.Message
	err := g.db.Where("conversation_id = ?", conversationID).Order("id asc").Find(&msgs).Error
	return msgs, err
}

func (g *Gorm) Conversation(id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := g.db.Preload("Messages").Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (g *Gorm) Create(inc *models.Incident) error {
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = time.Now()
	}
	return g.db.Create(inc).Error
}

func (g *Gorm) AppendInfo(id, text string) error {
	var inc models.Incident
	err := g.db.Where("id = ?", id).First(&inc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // unknown incident is a no-op, not an error
	}
	if err != nil {
		return err
	}
	inc.Description = fmt.Sprintf("%s\n\n%s (%s):\n%s", inc.Description, additionalInfoHeader, time.Now().Format(time.RFC3339), text)
	inc.AwaitingMoreInfo = false
	return g.db.Save(&inc).Error
}

func (g *Gorm) FindOpen(conversationID string) (*models.Incident, error) {
	var inc models.Incident
	err := g.db.Where("conversation_id = ? AND status = ? AND awaiting_more_info = ?",
		conversationID, models.IncidentReported, true).First(&inc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inc, nil
}

func (g *Gorm) Get(id string) (*models.Incident, error) {
	var inc models.Incident
	err := g.db.Where("id = ?", id).First(&inc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inc, nil
}

func (g *Gorm) List(propertyID string) ([]models.Incident, error) {
	var incs []models.Incident
	q := g.db.Order("created_at desc")
	if propertyID != "" {
		q = q.Where("property_id = ?", propertyID)
	}
	err := q.Find(&incs).Error
	return incs, err
}

func (g *Gorm) MarkScheduled(id, startTime string) error {
	var inc models.Incident
	err := g.db.Where("id = ?", id).First(&inc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	inc.Status = models.IncidentScheduled
	if inc.ScheduledAt == nil {
		if t, perr := time.Parse(time.RFC3339, startTime); perr == nil {
			inc.ScheduledAt = &t
		} else {
			now := time.Now()
			inc.ScheduledAt = &now
		}
	}
	return g.db.Save(&inc).Error
}

func (g *Gorm) CreateEvent(e *models.CalendarEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return g.db.Create(e).Error
}

func (g *Gorm) ListEvents(propertyID string) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	q := g.db.Order("start_time asc")
	if propertyID != "" {
		q = q.Where("property_id = ?", propertyID)
	}
	err := q.Find(&events).Error
	return events, err
}
