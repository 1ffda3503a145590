package controller

import (
	"encoding/json"

	"github.com/benbeisheim/chessmatch/internal/model"
	"github.com/benbeisheim/chessmatch/internal/msgcat"
	"github.com/benbeisheim/chessmatch/internal/obslog"
	"github.com/benbeisheim/chessmatch/internal/ws"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// messageData feeds the message catalog templates.
type messageData struct {
	Input  string
	From   string
	To     string
	GameID string
}

func statusFor(code string) int {
	switch code {
	case "game_not_found":
		return fiber.StatusNotFound
	case "not_a_player":
		return fiber.StatusForbidden
	case "malformed_coordinate", "invalid_position", "invalid_promotion":
		return fiber.StatusBadRequest
	case "game_full", "game_exists", "already_queued", "duplicate_connection", "not_your_turn",
		"match_finished", "promotion_pending", "no_pending_promotion", "time_expired":
		return fiber.StatusConflict
	case "internal":
		return fiber.StatusInternalServerError
	}
	return fiber.StatusUnprocessableEntity
}

// describe turns err into a code and a user-facing message.
func describe(messages *msgcat.Catalog, err error, data messageData) ws.ErrorPayload {
	code := model.ErrorCode(err)
	if code == "internal" {
		obslog.L().Error("request failed", zap.String("game_id", data.GameID), zap.Error(err))
	}
	text, rerr := messages.Lookup(code, data)
	if rerr != nil {
		obslog.L().Warn("render message", zap.String("code", code), zap.Error(rerr))
		text = err.Error()
	}
	return ws.ErrorPayload{Code: code, Message: text}
}

func fail(c *fiber.Ctx, messages *msgcat.Catalog, err error, data messageData) error {
	payload := describe(messages, err, data)
	return c.Status(statusFor(payload.Code)).JSON(fiber.Map{
		"error": payload.Message,
		"code":  payload.Code,
	})
}

func badSquare(from, to string) string {
	if _, err := model.ParseCoordinate(from); err != nil {
		return from
	}
	return to
}

func mustJSON(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
