package main

import (
	"log"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"homeguard/middleware"
	"homeguard/models"
	"homeguard/pkg/assistant"
	"homeguard/pkg/cache"
	"homeguard/pkg/config"
	"homeguard/pkg/knowledge"
	"homeguard/pkg/predictor"
	"homeguard/pkg/services"
	"homeguard/pkg/store"
	"homeguard/pkg/triage"
	"homeguard/routes"
)

func main() {
	// config init via package init()

	db, err := gorm.Open(mysql.Open(config.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// auto-migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Incident{},
		&models.CalendarEvent{},
	); err != nil {
		log.Fatalf("failed migrate: %v", err)
	}

	// runtime tunables from env
	middleware.SetRateLimitConfig(
		time.Duration(config.RateLimitWindowSeconds)*time.Second,
		config.RateLimitCapacity,
		config.UserConcurrencyLimit,
	)
	middleware.SetDuplicateTTL(time.Duration(config.DuplicateWindowSeconds) * time.Second)
	cache.SetMaxItems(config.AnswerCacheMaxItems)

	oracle := services.NewGeminiService()
	manuals := knowledge.Load(filepath.Join(config.DataDir, "house_manuals"))
	repo := store.NewGorm(db)
	pred := predictor.New(filepath.Join(config.DataDir, "maintenance_history"))

	orch := assistant.NewOrchestrator(repo, repo, oracle, manuals)
	orch.SetAnswerCacheTTL(time.Duration(config.AnswerCacheTTLSeconds) * time.Second)

	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		DB:           db,
		Orchestrator: orch,
		Incidents:    repo,
		Calendar:     repo,
		Predictor:    pred,
		Triage:       triage.NewClassifier(oracle),
		Oracle:       oracle,
		Retrieval:    manuals,
	})
	r.Run(":" + config.Port)
}
