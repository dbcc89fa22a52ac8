package router

import (
	"health_chat_service/internal/chat/app"
	"health_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes wire the chat service's websocket and rest endpoints
func RegisterRoutes(r *fiber.App, ws *app.WSHandler, rest *app.RestHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(ws.Handle))

	conv := r.Group("/conversations/:conversation_id")
	conv.Get("/messages", rest.History)
	conv.Post("/messages", rest.SendAttachment)
	conv.Post("/media", rest.StageMedia)
	conv.Get("/participants", rest.Participants)
	conv.Get("/unread", rest.Unread)
}
