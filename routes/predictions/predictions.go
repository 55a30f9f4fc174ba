package predictions

import (
	"github.com/gin-gonic/gin"

	"homeguard/controllers"
	"homeguard/middleware"
	"homeguard/models"
	"homeguard/pkg/predictor"
)

// Register registers maintenance prediction routes (protected)
func Register(g *gin.RouterGroup, p *predictor.Predictor) {
	g.GET("/api/predictions/:property_id", controllers.GetPredictions(p))
	g.POST("/api/predictions/:property_id/records",
		middleware.RequireRole(models.SenderLandlord),
		controllers.AddMaintenanceRecord(p))
}
