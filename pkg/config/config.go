package config

import (
	"log"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	GeminiAPIKey string
	GeminiModel  string
	AppEnv       string
	IsStaging    bool
	IsProduction bool
	// IsGeminiEnabled gates all oracle calls (enum: "1" or "0")
	IsGeminiEnabled bool

	JWTSecret   string
	Port        string
	DatabaseDSN string

	// DataDir holds house_manuals/ and maintenance_history/
	DataDir string

	// runtime tunables
	RateLimitWindowSeconds int
	RateLimitCapacity      int
	UserConcurrencyLimit   int
	DuplicateWindowSeconds int
	AnswerCacheTTLSeconds  int
	AnswerCacheMaxItems    int
)

// loadAppEnv only loads .env outside production; production relies on the
// host environment exclusively.
func loadAppEnv() {
	AppEnv = os.Getenv("APP_ENV")

	if AppEnv == "production" {
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}
}

func init() {
	loadAppEnv()

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	GeminiModel = os.Getenv("GEMINI_MODEL")

	AppEnv = os.Getenv("APP_ENV")

	if !slices.Contains([]string{"staging", "production"}, AppEnv) {
		AppEnv = "staging"
	}

	IsStaging = AppEnv == "staging"
	IsProduction = AppEnv == "production"

	IsGeminiEnabled = os.Getenv("IS_GEMINI_ENABLED") == "1"

	if GeminiModel == "" {
		GeminiModel = "gemini-2.0-flash"
	}

	JWTSecret = os.Getenv("JWT_SECRET_KEY")
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8000"
	}

	DatabaseDSN = os.Getenv("DATABASE_DSN")
	if DatabaseDSN == "" {
		DatabaseDSN = "homeguard:homeguard@tcp(127.0.0.1:3306)/homeguard?charset=utf8mb4&parseTime=True&loc=Local"
	}

	DataDir = os.Getenv("DATA_DIR")
	if DataDir == "" {
		DataDir = "./data"
	}

	RateLimitWindowSeconds = atoiOr(os.Getenv("RATE_LIMIT_WINDOW_SECONDS"), 10)
	RateLimitCapacity = atoiOr(os.Getenv("RATE_LIMIT_CAPACITY"), 5)
	UserConcurrencyLimit = atoiOr(os.Getenv("USER_CONCURRENCY_LIMIT"), 2)
	DuplicateWindowSeconds = atoiOr(os.Getenv("DUPLICATE_WINDOW_SECONDS"), 45)
	AnswerCacheTTLSeconds = atoiOr(os.Getenv("ANSWER_CACHE_TTL_SECONDS"), 600)
	AnswerCacheMaxItems = atoiOr(os.Getenv("ANSWER_CACHE_MAX_ITEMS"), 500)

	if IsProduction && JWTSecret == "" {
		log.Fatal("JWT_SECRET_KEY must be set in production")
	}

	log.Printf("[config] AppEnv=%s IsStaging=%v IsProduction=%v", AppEnv, IsStaging, IsProduction)
	log.Printf("[config] IsGeminiEnabled=%v GeminiAPIKeyPresent=%v GeminiModel=%s", IsGeminiEnabled, GeminiAPIKey != "", GeminiModel)
	log.Printf("[config] DataDir=%s", DataDir)
	log.Printf("[config] RateLimit window=%ds capacity=%d userConc=%d dupWindow=%ds cacheTTL=%ds cacheMax=%d",
		RateLimitWindowSeconds, RateLimitCapacity, UserConcurrencyLimit, DuplicateWindowSeconds, AnswerCacheTTLSeconds, AnswerCacheMaxItems)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
