package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"homeguard/controllers"
	"homeguard/middleware"
	"homeguard/pkg/assistant"
	"homeguard/pkg/predictor"
	"homeguard/pkg/store"
	"homeguard/pkg/triage"

	authRoutes "homeguard/routes/auth"
	calendarRoutes "homeguard/routes/calendar"
	chatRoutes "homeguard/routes/chat"
	convRoutes "homeguard/routes/conversation"
	incidentRoutes "homeguard/routes/incidents"
	predictionRoutes "homeguard/routes/predictions"
	websocketRoutes "homeguard/routes/websocket"
)

// Deps carries the wired services the route groups hand to their controllers.
type Deps struct {
	DB           *gorm.DB
	Orchestrator *assistant.Orchestrator
	Incidents    store.IncidentStore
	Calendar     store.CalendarStore
	Predictor    *predictor.Predictor
	Triage       *triage.Classifier
	Oracle       assistant.Oracle
	Retrieval    assistant.Retrieval
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "property maintenance assistant running"})
	})
	r.GET("/api/health", controllers.Health(d.DB, d.Oracle, d.Retrieval))

	websocketRoutes.Register(r, d.Orchestrator)
	authRoutes.RegisterPublic(r, d.DB)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	authRoutes.RegisterProtected(protected)
	chatRoutes.Register(protected, d.Orchestrator)
	convRoutes.Register(protected, d.DB)
	incidentRoutes.Register(protected, d.Incidents, d.Triage)
	calendarRoutes.Register(protected, d.Calendar, d.Incidents)
	predictionRoutes.Register(protected, d.Predictor)
}
