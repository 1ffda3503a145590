package middleware

import (
	"github.com/benbeisheim/chessmatch/internal/obslog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// EnsurePlayerID stores the caller's id in Locals("playerID"), read from the
// X-Player-ID header or the playerId query parameter. The id outlives the
// request (seats, queue), so it is copied out of the request buffer.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		source := "header"
		if playerID == "" {
			playerID = c.Query("playerId")
			source = "query"
		}

		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		obslog.L().Debug("player identified",
			zap.String("player_id", playerID),
			zap.String("source", source),
			zap.String("path", c.Path()),
		)
		c.Locals("playerID", utils.CopyString(playerID))
		return c.Next()
	}
}
