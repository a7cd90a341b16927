package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/letsgoal/letsgoal-api/internal/config"
	"github.com/letsgoal/letsgoal-api/internal/database"
	"github.com/letsgoal/letsgoal-api/internal/handlers"
	"github.com/letsgoal/letsgoal-api/internal/routes"
	"github.com/letsgoal/letsgoal-api/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	push := services.NewPush(database.DB, cfg.FCMServiceAccount)
	handlers.Init(services.NewGoals(database.DB, push), cfg.JWTSecret)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Setup(app, cfg.JWTSecret)

	log.Printf("Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
