package chat

import (
	"github.com/gin-gonic/gin"

	"homeguard/controllers"
	"homeguard/middleware"
	"homeguard/models"
	"homeguard/pkg/assistant"
)

// Register registers chat routes (protected). The chat POST sits behind the
// rate limiter because it can reach the oracle.
func Register(g *gin.RouterGroup, orch *assistant.Orchestrator) {
	g.POST("/api/chat", middleware.RateLimit(), controllers.Chat(orch))
	g.POST("/api/conversations/:conversation_id/suggest-reply",
		middleware.RateLimit(),
		middleware.RequireRole(models.SenderLandlord),
		controllers.SuggestReply(orch))
}
