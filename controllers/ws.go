package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"homeguard/middleware"
	"homeguard/models"
	"homeguard/pkg/assistant"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS handled at HTTP level; allow WS here
		return true
	},
}

type wsStartPayload struct {
	Type           string `json:"type"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	PropertyID     string `json:"property_id"`
}

// ChatWS streams the assistant reply over a websocket.
// Client protocol (JSON messages):
//
//	-> {type: "start", message: string, conversation_id: string, property_id: string}
//	<- {type: "user_saved", conversation_id: string}
//	<- {type: "delta", data: string}
//	<- {type: "done", ok: true, incident_created: bool, incident_id?: string}
//	<- {type: "error", error: string}
func ChatWS(orch *assistant.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authenticate via ?token=JWT; browsers cannot set headers on WS
		claims, err := middleware.ParseToken(strings.TrimSpace(c.Query("token")))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[ws] upgrade error: %v", err)
			return
		}
		defer conn.Close()

		conn.SetReadLimit(1 << 20) // 1MB
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		})

		// one start message per connection
		_, msgBytes, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[ws] read message error: %v", err)
			return
		}
		var start wsStartPayload
		if err := json.Unmarshal(msgBytes, &start); err != nil || strings.ToLower(start.Type) != "start" ||
			strings.TrimSpace(start.Message) == "" || start.ConversationID == "" || start.PropertyID == "" {
			_ = conn.WriteJSON(gin.H{"type": "error", "error": "invalid start payload"})
			return
		}

		if !middleware.DuplicateGuard(claims.UserID, start.Message) {
			_ = conn.WriteJSON(gin.H{"type": "error", "error": "duplicate message"})
			return
		}

		release := middleware.AcquireUserSlot(claims.UserID)
		defer release()

		role := claims.Role
		if role != models.SenderLandlord {
			role = models.SenderTenant
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 75*time.Second)
		defer cancel()

		// listen for {type:"stop"} while the oracle call is in flight
		stopCh := make(chan struct{})
		go func() {
			for {
				if err := conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
					return
				}
				mt, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
					continue
				}
				var obj struct {
					Type string `json:"type"`
				}
				_ = json.Unmarshal(msg, &obj)
				if strings.ToLower(strings.TrimSpace(obj.Type)) == "stop" {
					cancel()
					select {
					case <-stopCh:
					default:
						close(stopCh)
					}
					return
				}
			}
		}()
		isStopped := func() bool {
			select {
			case <-stopCh:
				return true
			default:
				return false
			}
		}

		resp, err := orch.Handle(ctx, assistant.Request{
			ConversationID: start.ConversationID,
			PropertyID:     start.PropertyID,
			UserID:         claims.UserID,
			Role:           role,
			Text:           start.Message,
		})
		if err != nil {
			_ = conn.WriteJSON(gin.H{"type": "error", "error": "failed to process message"})
			return
		}

		_ = conn.WriteJSON(gin.H{"type": "user_saved", "conversation_id": start.ConversationID})

		// chunked delivery preserving whitespace and newlines
		runes := []rune(resp.Reply)
		const chunk = 28
		for i := 0; i < len(runes); i += chunk {
			if isStopped() {
				break
			}
			end := i + chunk
			if end > len(runes) {
				end = len(runes)
			}
			_ = conn.WriteJSON(gin.H{"type": "delta", "data": string(runes[i:end])})
			time.Sleep(12 * time.Millisecond)
		}

		done := gin.H{"type": "done", "ok": true, "incident_created": resp.IncidentCreated}
		if resp.IncidentID != "" {
			done["incident_id"] = resp.IncidentID
		}
		if isStopped() {
			done["stopped"] = true
		}
		_ = conn.WriteJSON(done)
	}
}
