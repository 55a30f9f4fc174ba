package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"homeguard/pkg/predictor"
)

// GetPredictions returns upcoming maintenance forecasts for a property,
// optionally narrowed to one asset.
func GetPredictions(p *predictor.Predictor) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		assetID := strings.TrimSpace(c.Query("asset_id"))

		if assetID != "" {
			pred := p.Predict(propertyID, assetID, c.Query("asset_type"))
			c.JSON(http.StatusOK, pred)
			return
		}

		preds := p.PredictAll(propertyID)
		c.JSON(http.StatusOK, gin.H{"property_id": propertyID, "predictions": preds, "count": len(preds)})
	}
}

// AddMaintenanceRecord appends a history entry so future predictions see the
// completed work.
func AddMaintenanceRecord(p *predictor.Predictor) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")

		var body struct {
			AssetID   string `json:"asset_id"`
			AssetName string `json:"asset_name"`
			AssetType string `json:"asset_type"`
			Date      string `json:"date"`
			Type      string `json:"type"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.AssetID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "asset_id is required"})
			return
		}

		date := time.Now()
		if body.Date != "" {
			parsed, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "date must be YYYY-MM-DD"})
				return
			}
			date = parsed
		}
		if body.Type == "" {
			body.Type = "maintenance"
		}

		rec := predictor.Record{
			AssetID:   body.AssetID,
			AssetName: body.AssetName,
			AssetType: body.AssetType,
			Date:      date,
			Type:      body.Type,
		}
		if err := p.AddRecord(propertyID, rec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to save record"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"msg": "record saved"})
	}
}
