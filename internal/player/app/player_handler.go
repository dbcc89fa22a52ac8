package app

import (
	"errors"

	"health_chat_service/internal/player/repository"
	"health_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// PlayerHandler owns the player service http endpoints
type PlayerHandler struct {
	uc *PlayerUseCase
}

// NewPlayerHandler create a PlayerHandler
func NewPlayerHandler(uc *PlayerUseCase) *PlayerHandler {
	return &PlayerHandler{uc: uc}
}

type addPointsReq struct {
	Points int `json:"points"`
}

type burnDayReq struct {
	Continued bool `json:"continued"`
}

// Stats return the caller's progression snapshot
func (h *PlayerHandler) Stats(c *fiber.Ctx) error {
	userID := c.Locals(middlewares.TokenUserID).(string)
	stats, err := h.uc.GetStats(userID)
	if err != nil {
		return playerError(c, err)
	}
	return c.JSON(stats)
}

// AddPoints credit fuel points and report any level-up
func (h *PlayerHandler) AddPoints(c *fiber.Ctx) error {
	userID := c.Locals(middlewares.TokenUserID).(string)

	var req addPointsReq
	if err := c.BodyParser(&req); err != nil || req.Points <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid points"})
	}

	stats, err := h.uc.AddFuelPoints(userID, req.Points)
	if err != nil {
		return playerError(c, err)
	}
	return c.JSON(stats)
}

// BurnDay extend or reset the caller's burn streak
func (h *PlayerHandler) BurnDay(c *fiber.Ctx) error {
	userID := c.Locals(middlewares.TokenUserID).(string)

	var req burnDayReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	stats, err := h.uc.RecordBurnDay(userID, req.Continued)
	if err != nil {
		return playerError(c, err)
	}
	return c.JSON(stats)
}

func playerError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
