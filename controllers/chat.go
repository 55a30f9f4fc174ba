package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homeguard/middleware"
	"homeguard/models"
	"homeguard/pkg/assistant"
)

// Chat is the main conversational endpoint. Each call appends one message and
// returns the assistant's decision for it.
func Chat(orch *assistant.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		uidRaw, _ := c.Get(middleware.ContextUserIDKey)
		uid, _ := uidRaw.(string)
		roleRaw, _ := c.Get(middleware.ContextUserRoleKey)
		role, _ := roleRaw.(string)
		if role != models.SenderLandlord {
			role = models.SenderTenant
		}

		var body struct {
			ConversationID string `json:"conversation_id"`
			PropertyID     string `json:"property_id"`
			Message        string `json:"message"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Message) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "message is required"})
			return
		}
		if body.ConversationID == "" || body.PropertyID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "conversation_id and property_id are required"})
			return
		}

		if !middleware.DuplicateGuard(uid, body.Message) {
			c.JSON(http.StatusTooManyRequests, gin.H{"msg": "duplicate message"})
			return
		}

		release := middleware.AcquireUserSlot(uid)
		defer release()

		resp, err := orch.Handle(c.Request.Context(), assistant.Request{
			ConversationID: body.ConversationID,
			PropertyID:     body.PropertyID,
			UserID:         uid,
			Role:           role,
			Text:           body.Message,
		})
		if err != nil {
			if err == assistant.ErrEmptyMessage {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "message is required"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to process message"})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// SuggestReply drafts a reply the landlord can edit before sending.
func SuggestReply(orch *assistant.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		convID := c.Param("conversation_id")
		if convID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "conversation_id is required"})
			return
		}

		draft, err := orch.SuggestReply(c.Request.Context(), convID)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"msg": "suggestion unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestion": strings.TrimSpace(draft)})
	}
}
