package calendar

import (
	"github.com/gin-gonic/gin"

	"homeguard/controllers"
	"homeguard/middleware"
	"homeguard/models"
	"homeguard/pkg/store"
)

// Register registers calendar routes (protected). Scheduling is a landlord
// action; tenants only read.
func Register(g *gin.RouterGroup, calendar store.CalendarStore, incidents store.IncidentStore) {
	g.GET("/api/calendar/events", controllers.ListEvents(calendar))
	g.POST("/api/calendar/events",
		middleware.RequireRole(models.SenderLandlord),
		controllers.CreateEvent(calendar, incidents))
}
