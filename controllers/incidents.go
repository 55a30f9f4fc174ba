package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homeguard/pkg/store"
	"homeguard/pkg/triage"
)

func ListIncidents(incidents store.IncidentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := strings.TrimSpace(c.Query("property_id"))
		incs, err := incidents.List(propertyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"incidents": incs, "count": len(incs)})
	}
}

func GetIncident(incidents store.IncidentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		inc, err := incidents.Get(c.Param("incident_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}
		if inc == nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "incident not found"})
			return
		}
		c.JSON(http.StatusOK, inc)
	}
}

// TriageIssue classifies a description without creating anything. The
// landlord dashboard uses it to preview category and severity.
func TriageIssue(classifier *triage.Classifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Description) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "description is required"})
			return
		}
		c.JSON(http.StatusOK, classifier.Triage(c.Request.Context(), body.Description))
	}
}
