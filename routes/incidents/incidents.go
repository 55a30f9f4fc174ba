package incidents

import (
	"github.com/gin-gonic/gin"

	"homeguard/controllers"
	"homeguard/middleware"
	"homeguard/pkg/store"
	"homeguard/pkg/triage"
)

// Register registers incident routes (protected). Triage preview may call
// the oracle, so it shares the chat rate limit.
func Register(g *gin.RouterGroup, incidents store.IncidentStore, classifier *triage.Classifier) {
	g.GET("/api/incidents", controllers.ListIncidents(incidents))
	g.GET("/api/incidents/:incident_id", controllers.GetIncident(incidents))
	g.POST("/api/triage", middleware.RateLimit(), controllers.TriageIssue(classifier))
}
