package controller

import (
	"github.com/benbeisheim/chessmatch/internal/model"
	"github.com/benbeisheim/chessmatch/internal/msgcat"
	"github.com/benbeisheim/chessmatch/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
	messages    *msgcat.Catalog
}

func NewGameController(gameService *service.GameService, messages *msgcat.Catalog) *GameController {
	return &GameController{gameService: gameService, messages: messages}
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

type promoteRequest struct {
	Piece string `json:"piece"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return fail(c, gc.messages, err, messageData{})
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return fail(c, gc.messages, err, messageData{GameID: gameID})
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return fail(c, gc.messages, err, messageData{GameID: gameID})
	}

	return c.JSON(gameState)
}

func (gc *GameController) PossibleMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	square := c.Params("square")

	moves, err := gc.gameService.PossibleMoves(gameID, square)
	if err != nil {
		return fail(c, gc.messages, err, messageData{GameID: gameID, Input: square, From: square})
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	captured, err := gc.gameService.HandleMove(gameID, playerID, move)
	if err != nil {
		return fail(c, gc.messages, err, messageData{
			GameID: gameID,
			Input:  badSquare(move.From, move.To),
			From:   move.From,
			To:     move.To,
		})
	}

	state, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return fail(c, gc.messages, err, messageData{GameID: gameID})
	}
	return c.JSON(fiber.Map{
		"captured": captured,
		"state":    state,
	})
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	piece, err := gc.gameService.HandlePromotion(gameID, playerID, req.Piece)
	if err != nil {
		return fail(c, gc.messages, err, messageData{GameID: gameID})
	}
	return c.JSON(fiber.Map{
		"piece": piece,
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return fail(c, gc.messages, err, messageData{})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	event, queued := gc.gameService.MatchmakingStatus(playerID)
	switch {
	case event != nil:
		return c.JSON(fiber.Map{
			"status": "matched",
			"gameId": event.GameID,
			"color":  event.Color,
		})
	case queued:
		return c.JSON(fiber.Map{"status": "queued"})
	}
	return c.JSON(fiber.Map{"status": "idle"})
}
