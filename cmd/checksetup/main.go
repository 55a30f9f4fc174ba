// Command checksetup verifies the environment before starting the server:
// config, database, oracle reachability and data files.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"homeguard/pkg/config"
	"homeguard/pkg/knowledge"
	"homeguard/pkg/services"
)

func main() {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Property Maintenance Assistant - Setup Checker")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	allOK := true

	fmt.Println("1. Checking configuration...")
	if !checkConfig() {
		allOK = false
	}
	fmt.Println()

	fmt.Println("2. Checking database...")
	if !checkDatabase() {
		allOK = false
	}
	fmt.Println()

	fmt.Println("3. Checking oracle...")
	if !checkOracle() {
		allOK = false
	}
	fmt.Println()

	fmt.Println("4. Checking house manuals...")
	checkHouseManuals()
	fmt.Println()

	fmt.Println("5. Checking maintenance history...")
	checkMaintenanceHistory()
	fmt.Println()

	fmt.Println(strings.Repeat("=", 60))
	if allOK {
		fmt.Println("✓ All checks passed! You're ready to start the server.")
	} else {
		fmt.Println("❌ Some checks failed. Please fix the issues above.")
		os.Exit(1)
	}
	fmt.Println(strings.Repeat("=", 60))
}

func checkConfig() bool {
	ok := true
	fmt.Printf("✓ APP_ENV=%s\n", config.AppEnv)
	if config.JWTSecret == "" {
		fmt.Println("⚠ JWT_SECRET_KEY is not set (required in production)")
	} else {
		fmt.Println("✓ JWT_SECRET_KEY set")
	}
	if config.IsGeminiEnabled && config.GeminiAPIKey == "" {
		fmt.Println("❌ IS_GEMINI_ENABLED=1 but GEMINI_API_KEY is empty")
		ok = false
	}
	return ok
}

func checkDatabase() bool {
	db, err := gorm.Open(mysql.Open(config.DatabaseDSN), &gorm.Config{})
	if err != nil {
		fmt.Printf("❌ cannot open database: %v\n", err)
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		fmt.Printf("❌ cannot access database handle: %v\n", err)
		return false
	}
	if err := sqlDB.Ping(); err != nil {
		fmt.Printf("❌ database ping failed: %v\n", err)
		return false
	}
	fmt.Println("✓ Database reachable")
	return true
}

func checkOracle() bool {
	oracle := services.NewGeminiService()
	if !oracle.Available() {
		fmt.Println("⚠ Oracle disabled; the assistant will use local fallbacks only")
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := oracle.Generate(ctx, "Reply with the single word: ok"); err != nil {
		fmt.Printf("❌ Oracle call failed: %v\n", err)
		return false
	}
	fmt.Printf("✓ Oracle responding (model %s)\n", config.GeminiModel)
	return true
}

func checkHouseManuals() {
	dir := filepath.Join(config.DataDir, "house_manuals")
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Printf("⚠ House manuals directory not found: %s\n", dir)
		return
	}
	var txt []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			txt = append(txt, e.Name())
		}
	}
	if len(txt) == 0 {
		fmt.Println("⚠ No house manual files found")
		return
	}
	fmt.Printf("✓ Found %d house manual file(s):\n", len(txt))
	for _, name := range txt {
		fmt.Printf("   - %s\n", name)
	}
	base := knowledge.Load(dir)
	if base.Ready() {
		fmt.Println("✓ Knowledge base indexed")
	} else {
		fmt.Println("⚠ Knowledge base failed to index any document")
	}
}

func checkMaintenanceHistory() {
	dir := filepath.Join(config.DataDir, "maintenance_history")
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Printf("⚠ Maintenance history directory not found: %s\n", dir)
		return
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "_maintenance_history.txt") {
			count++
		}
	}
	if count == 0 {
		fmt.Println("⚠ No maintenance history files found; predictions will use defaults")
		return
	}
	fmt.Printf("✓ Found %d maintenance history file(s)\n", count)
}
