package models

import "time"

// Category of a maintenance incident.
type Category string

const (
	CategoryAC         Category = "AC"
	CategoryHeater     Category = "HEATER"
	CategoryLights     Category = "LIGHTS"
	CategoryPlumbing   Category = "PLUMBING"
	CategoryAppliances Category = "APPLIANCES"
	CategoryRouter     Category = "ROUTER"
	CategoryOther      Category = "OTHER"
)

// Severity of a maintenance incident.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	IncidentReported  = "reported"
	IncidentScheduled = "scheduled" // set when a calendar event is linked
)

// Incident is a maintenance ticket. At most one incident per conversation may
// have AwaitingMoreInfo=true at any time; callers never open two at once.
type Incident struct {
	ID               string   `gorm:"primaryKey;size:36"`
	PropertyID       string   `gorm:"size:64;index"`
	ConversationID   string   `gorm:"size:64;index"`
	Description      string   `gorm:"type:text"`
	Category         Category `gorm:"size:20"`
	Severity         Severity `gorm:"size:20"`
	Status           string   `gorm:"size:20"`
	AwaitingMoreInfo bool
	AISuggested      bool
	CreatedAt        time.Time
	ScheduledAt      *time.Time
}
