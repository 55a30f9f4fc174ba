package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"homeguard/models"
)

func ListConversations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := strings.TrimSpace(c.Query("property_id"))
		q := strings.TrimSpace(c.Query("q"))

		var convs []models.Conversation
		query := db.Preload("Messages")
		if propertyID != "" {
			query = query.Where("property_id = ?", propertyID)
		}
		if err := query.Find(&convs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}

		// filter by q (in-memory)
		filtered := convs
		if q != "" {
			p := strings.ToLower(q)
			filtered = convs[:0]
			for _, conv := range convs {
				if strings.Contains(strings.ToLower(conv.Title), p) {
					filtered = append(filtered, conv)
					continue
				}
				for _, m := range conv.Messages {
					if strings.Contains(strings.ToLower(m.Text), p) {
						filtered = append(filtered, conv)
						break
					}
				}
			}
		}

		result := make([]gin.H, 0, len(filtered))
		for _, conv := range filtered {
			result = append(result, gin.H{
				"id":             conv.ID,
				"property_id":    conv.PropertyID,
				"title":          conv.Title,
				"created_at":     conv.CreatedAt,
				"messages_count": len(conv.Messages),
			})
		}

		c.JSON(http.StatusOK, result)
	}
}

func GetConversation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		convID := c.Param("conversation_id")

		var conv models.Conversation
		if err := db.Preload("Messages").Where("id = ?", convID).First(&conv).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "conversation not found"})
			return
		}

		messages := make([]gin.H, 0, len(conv.Messages))
		for _, m := range conv.Messages {
			entry := gin.H{
				"id":          m.ID,
				"role":        m.Role,
				"sender_role": m.SenderRole,
				"text":        m.Text,
				"timestamp":   m.Timestamp,
			}
			if m.IncidentID != "" {
				entry["incident_id"] = m.IncidentID
			}
			if m.IsSuggestion {
				entry["is_suggestion"] = true
			}
			messages = append(messages, entry)
		}

		c.JSON(http.StatusOK, gin.H{
			"conversation_id": conv.ID,
			"property_id":     conv.PropertyID,
			"title":           conv.Title,
			"messages":        messages,
		})
	}
}
