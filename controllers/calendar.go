package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homeguard/models"
	"homeguard/pkg/store"
)

// CreateEvent schedules a visit. Linking an incident transitions it from
// reported to scheduled.
func CreateEvent(calendar store.CalendarStore, incidents store.IncidentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			PropertyID    string `json:"property_id"`
			Type          string `json:"type"`
			Title         string `json:"title"`
			StartTime     string `json:"start_time"`
			EndTime       string `json:"end_time"`
			TenantID      string `json:"tenant_id"`
			AssetID       string `json:"asset_id"`
			IncidentID    string `json:"incident_id"`
			Description   string `json:"description"`
			IsAISuggested bool   `json:"is_ai_suggested"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		if strings.TrimSpace(body.PropertyID) == "" || strings.TrimSpace(body.StartTime) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "property_id and start_time are required"})
			return
		}

		event := &models.CalendarEvent{
			ID:            uuid.NewString(),
			PropertyID:    body.PropertyID,
			Type:          body.Type,
			Title:         body.Title,
			StartTime:     body.StartTime,
			EndTime:       body.EndTime,
			Status:        "scheduled",
			TenantID:      body.TenantID,
			AssetID:       body.AssetID,
			IncidentID:    body.IncidentID,
			Description:   body.Description,
			IsAISuggested: body.IsAISuggested,
		}
		if err := calendar.CreateEvent(event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create event"})
			return
		}

		if event.IncidentID != "" {
			if err := incidents.MarkScheduled(event.IncidentID, event.StartTime); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to update incident"})
				return
			}
		}

		c.JSON(http.StatusCreated, event)
	}
}

func ListEvents(calendar store.CalendarStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := calendar.ListEvents(strings.TrimSpace(c.Query("property_id")))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
	}
}
