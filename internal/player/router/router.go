package router

import (
	"health_chat_service/internal/player/app"
	"health_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wire the player service's rest endpoints
func RegisterRoutes(r *fiber.App, handler *app.PlayerHandler) {
	r.Use(middlewares.JWTMiddleware())

	player := r.Group("/player")
	player.Get("/stats", handler.Stats)
	player.Post("/points", handler.AddPoints)
	player.Post("/burn_day", handler.BurnDay)
}
