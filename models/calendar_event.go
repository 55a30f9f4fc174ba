package models

import "time"

// CalendarEvent is a scheduled visit (maintenance, inspection, viewing).
// Creating an event linked to an incident moves that incident to "scheduled".
type CalendarEvent struct {
	ID            string `gorm:"primaryKey;size:36"`
	PropertyID    string `gorm:"size:64;index"`
	Type          string `gorm:"size:40"`
	Title         string `gorm:"size:200"`
	StartTime     string `gorm:"size:40"`
	EndTime       string `gorm:"size:40"`
	Status        string `gorm:"size:20"`
	TenantID      string `gorm:"size:64"`
	AssetID       string `gorm:"size:64"`
	IncidentID    string `gorm:"size:36"`
	Description   string `gorm:"type:text"`
	IsAISuggested bool
	CreatedAt     time.Time
}
