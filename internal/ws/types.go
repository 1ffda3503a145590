package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove          MessageType = "move"
	MessageTypePromote       MessageType = "promote"
	MessageTypePossibleMoves MessageType = "possibleMoves"
	MessageTypeGameState     MessageType = "gameState"
	MessageTypeError         MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type PromotePayload struct {
	Piece string `json:"piece"`
}

type PossibleMovesPayload struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
