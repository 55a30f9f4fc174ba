package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"homeguard/pkg/assistant"
	"homeguard/pkg/config"
)

// Health reports which subsystems are live so the frontend can degrade
// gracefully when the oracle or manuals are missing.
func Health(db *gorm.DB, oracle assistant.Oracle, retrieval assistant.Retrieval) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbOK := false
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				dbOK = sqlDB.Ping() == nil
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":          "healthy",
			"app_env":         config.AppEnv,
			"database":        dbOK,
			"oracle_enabled":  oracle != nil && oracle.Available(),
			"knowledge_ready": retrieval != nil && retrieval.Ready(),
		})
	}
}
