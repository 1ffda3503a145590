package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessmatch/internal/model"
	"github.com/benbeisheim/chessmatch/internal/msgcat"
	"github.com/benbeisheim/chessmatch/internal/obslog"
	"github.com/benbeisheim/chessmatch/internal/service"
	"github.com/benbeisheim/chessmatch/internal/ws"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

type WebSocketController struct {
	gameService *service.GameService
	messages    *msgcat.Catalog
}

func NewWebSocketController(gameService *service.GameService, messages *msgcat.Catalog) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		messages:    messages,
	}
}

// wsConn serializes writes; game broadcasts and replies share the socket.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

// HandleConnection serves one player's socket until it closes.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)
	log := obslog.L().With(zap.String("game_id", gameID), zap.String("player_id", playerID))

	conn := &wsConn{conn: c}
	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warn("register connection", zap.Error(err))
		wsc.sendError(conn, err, messageData{GameID: gameID})
		if errors.Is(err, model.ErrDuplicateConnection) {
			_ = c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "duplicate connection"))
		}
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)
	log.Info("websocket connected")

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", zap.Error(err))
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debug("parse message", zap.Error(err))
			continue
		}

		if err := wsc.handleMessage(conn, gameID, playerID, msg); err != nil {
			log.Debug("handle message", zap.String("type", string(msg.Type)), zap.Error(err))
		}
	}
	log.Info("websocket disconnected")
}

func (wsc *WebSocketController) handleMessage(conn model.Connection, gameID, playerID string, msg ws.Message) error {
	data := messageData{GameID: gameID}

	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		if _, err := wsc.gameService.HandleMove(gameID, playerID, move); err != nil {
			data.Input, data.From, data.To = badSquare(move.From, move.To), move.From, move.To
			wsc.sendError(conn, err, data)
			return err
		}
		return nil

	case ws.MessageTypePromote:
		var payload ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		if _, err := wsc.gameService.HandlePromotion(gameID, playerID, payload.Piece); err != nil {
			wsc.sendError(conn, err, data)
			return err
		}
		return nil

	case ws.MessageTypePossibleMoves:
		var payload ws.PossibleMovesPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		moves, err := wsc.gameService.PossibleMoves(gameID, payload.Square)
		if err != nil {
			data.Input, data.From = payload.Square, payload.Square
			wsc.sendError(conn, err, data)
			return err
		}
		return conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypePossibleMoves,
			Payload: mustJSON(ws.PossibleMovesPayload{Square: payload.Square, Moves: moves}),
		})

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(conn model.Connection, err error, data messageData) {
	payload := describe(wsc.messages, err, data)
	if werr := conn.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: mustJSON(payload),
	}); werr != nil {
		obslog.L().Debug("send error", zap.Error(werr))
	}
}
