package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"matchup-game-system/data"
	"matchup-game-system/handlers"
	"matchup-game-system/middleware"
	"matchup-game-system/models"
	"matchup-game-system/services"
	"matchup-game-system/utils"
	"matchup-game-system/workers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// Only Gateway requests allowed — no exceptions.
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Operator-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Player{},
		&models.GameScore{},
		&models.AppSetting{},
		&models.SessionMarker{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	gameCfg := services.DefaultGameConfig()
	if secs := os.Getenv("MATCHUP_SESSION_SECONDS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			gameCfg.SessionSeconds = n
		} else {
			log.Printf("⚠️  Ignoring invalid MATCHUP_SESSION_SECONDS=%q", secs)
		}
	}

	store := services.NewGormScoreStore(db)
	settingsService := services.NewSettingsService(db)
	gameService := services.NewGameService(store, gameCfg, data.Services)

	archive, err := utils.NewR2Archive()
	if err != nil {
		log.Fatal("failed to initialize winners archive:", err)
	}
	var archiver services.WinnersArchiver
	if archive != nil {
		archiver = archive
	} else {
		log.Println("⚠️  R2_BUCKET_NAME not set, winners snapshots will not be archived")
	}
	windowService := services.NewWindowService(store, &services.GormMarkerStore{DB: db}, archiver)

	announcer := workers.NewWinnerAnnouncer(settingsService, store)
	if err := announcer.Start(); err != nil {
		log.Fatal("failed to start winner announcer:", err)
	}

	handlers.SetupPlayerRoutes(app, store)
	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupLeaderboardRoutes(app, windowService)
	handlers.SetupSettingsRoutes(app, settingsService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Printf("✅ Game sessions run %ds with %d matchable pairs", gameCfg.SessionSeconds, len(data.Services))

	<-ctx.Done()
	log.Println("Shutting down server...")
	announcer.Stop()
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
