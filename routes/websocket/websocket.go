package websocket

import (
	"github.com/gin-gonic/gin"

	"homeguard/controllers"
	"homeguard/middleware"
	"homeguard/pkg/assistant"
)

func Register(r *gin.Engine, orch *assistant.Orchestrator) {
	r.GET("/ws/chat", middleware.RateLimit(), controllers.ChatWS(orch))
}
