package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"health_chat_service/internal/player/app"
	"health_chat_service/internal/player/repository"
	"health_chat_service/internal/player/router"
	"health_chat_service/pkg/config"
	"health_chat_service/pkg/database"
	"health_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.PlayerService, config.EnvConfig.PlayerServiceLogPath)
	logger.Log.SetDebugMode(config.IsLocal())
	cfg := config.LoadConfig[config.Player](config.EnvConfig.PlayerService, config.EnvConfig.PlayerServiceYAMLPath)

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	db, err := database.NewGormConnection(database.Connection{
		ConnectStr:    dsn,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect postgres err : %v", err))
	}

	playerRepo := repository.NewPlayerRepo(db)
	if err := playerRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal(fmt.Sprintf("migrate err : %v", err))
	}

	playerUC := app.NewPlayerUseCase(playerRepo)

	r := fiber.New(fiber.Config{
		DisableStartupMessage: config.IsProduction(),
	})
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.PlayerServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, app.NewPlayerHandler(playerUC))

	port := cfg.Port
	if port == "" {
		port = config.EnvConfig.PlayerServicePort
	}
	port = ":" + port
	log.Printf("Player Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
