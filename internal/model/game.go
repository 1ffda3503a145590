package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessmatch/internal/obslog"
	"github.com/benbeisheim/chessmatch/internal/ws"
	"go.uber.org/zap"
)

const (
	ResolveCheckmate = "checkmate"
	ResolveTimeout   = "timeout"
)

// Connection is the part of a websocket connection a game writes to.
type Connection interface {
	WriteJSON(v interface{}) error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Connection // playerID -> connection
	mu          sync.RWMutex
}

// Game wraps a Match with the players, clocks and observers of one online game.
type Game struct {
	ID          string
	mu          sync.Mutex
	match       *Match
	players     players
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
	sound       string
	resolve     *string
	winner      *Color
	lastMove    *SimpleMove
}

type players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

type GameState struct {
	Sound           string         `json:"sound"`
	Board           [][]*Piece     `json:"board"`
	FEN             string         `json:"fen"`
	ToMove          Color          `json:"toMove"`
	Turn            int            `json:"turn"`
	MoveHistory     []Move         `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	IsCheck         bool           `json:"isCheck"`
	IsCheckmate     bool           `json:"isCheckmate"`
	EnPassantTarget *Position      `json:"enPassantTarget"`
	PromotionPiece  *Piece         `json:"promotionPiece"`
	Resolve         *string        `json:"resolve"`
	Winner          *Color         `json:"winner"`
	Players         players        `json:"players"`
	LastMove        *SimpleMove    `json:"lastMove"`
}

// CapturedPieces groups captured pieces by their own color.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// NewGame starts a game from the initial position. A zero timeControl
// disables the clocks.
func NewGame(id string, timeControl time.Duration) *Game {
	return newGame(id, NewMatch(), timeControl)
}

func NewGameFromFEN(id, fen string, timeControl time.Duration) (*Game, error) {
	match, err := NewMatchFromFEN(fen)
	if err != nil {
		return nil, err
	}
	g := newGame(id, match, timeControl)
	if match.CheckMate() {
		g.resolveGame(ResolveCheckmate, match.CurrentPlayer())
	}
	return g, nil
}

func newGame(id string, match *Match, timeControl time.Duration) *Game {
	g := &Game{
		ID:          id,
		match:       match,
		connections: NewGameConnections(),
	}
	if timeControl > 0 {
		g.whiteClock = NewClock(timeControl)
		g.blackClock = NewClock(timeControl)
	}
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Connection),
	}
}

// AddPlayer seats playerID on the first free side. Joining twice returns the
// seat already held.
func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: White}
		return White, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: Black}
		return Black, nil
	}
	return "", fmt.Errorf("%w: %s", ErrGameFull, g.ID)
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) colorOf(playerID string) (Color, bool) {
	if playerID == "" {
		return "", false
	}
	switch playerID {
	case g.players.White.ID:
		return White, true
	case g.players.Black.ID:
		return Black, true
	}
	return "", false
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

// PossibleMoves lists the squares the piece on square may move to.
func (g *Game) PossibleMoves(square string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from, err := ParseCoordinate(square)
	if err != nil {
		return nil, err
	}
	mat, err := g.match.PossibleMoves(from)
	if err != nil {
		return nil, err
	}
	return markedSquares(mat), nil
}

func markedSquares(mat [][]bool) []string {
	var squares []string
	for i := range mat {
		for j := range mat[i] {
			if !mat[i][j] {
				continue
			}
			if c, err := CoordinateFromPosition(Position{Row: i, Column: j}); err == nil {
				squares = append(squares, c.String())
			}
		}
	}
	return squares
}

// MakeMove plays move for playerID. When move.Promotion is set and the move
// promotes a pawn, the promotion is resolved in the same call.
func (g *Game) MakeMove(playerID string, move WSMove) (*Piece, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve != nil {
		return nil, ErrMatchFinished
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAPlayer, playerID)
	}
	if color != g.match.CurrentPlayer() {
		return nil, ErrNotYourTurn
	}
	if clock := g.clockFor(color); clock != nil && clock.Expired() {
		g.resolveGame(ResolveTimeout, color.Opposite())
		go g.broadcastState(g.snapshot())
		return nil, ErrTimeExpired
	}
	switch move.Promotion {
	case "", Queen, Rook, Bishop, Knight:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPromotion, move.Promotion)
	}
	from, err := ParseCoordinate(move.From)
	if err != nil {
		return nil, err
	}
	to, err := ParseCoordinate(move.To)
	if err != nil {
		return nil, err
	}

	captured, err := g.match.PerformMove(from, to)
	if err != nil {
		return nil, err
	}
	if move.Promotion != "" && g.match.promoted != nil {
		if _, err := g.match.ReplacePromotedPiece(move.Promotion); err != nil {
			return nil, err
		}
	}

	g.lastMove = &SimpleMove{From: from.ToPosition(), To: to.ToPosition()}
	g.sound = "move"
	if captured != nil {
		g.sound = "capture"
	}
	g.afterMove(color)

	obslog.L().Info("move played",
		zap.String("game_id", g.ID),
		zap.String("player_id", playerID),
		zap.String("from", move.From),
		zap.String("to", move.To),
		zap.Int("turn", g.match.Turn()),
		zap.Bool("check", g.match.Check()),
		zap.Bool("checkmate", g.match.CheckMate()),
	)

	go g.broadcastState(g.snapshot())
	return captured, nil
}

// Promote resolves a pending promotion owned by playerID.
func (g *Game) Promote(playerID string, kind PieceType) (*Piece, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve != nil && *g.resolve == ResolveTimeout {
		return nil, ErrMatchFinished
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAPlayer, playerID)
	}
	pending := g.match.Promoted()
	if pending == nil {
		return nil, ErrNoPendingPromotion
	}
	if pending.Color != color {
		return nil, ErrNotYourTurn
	}
	piece, err := g.match.ReplacePromotedPiece(kind)
	if err != nil {
		return nil, err
	}
	if g.resolve != nil && *g.resolve == ResolveCheckmate && !g.match.CheckMate() {
		g.resolve, g.winner = nil, nil
	}
	g.sound = "promote"
	g.afterMove(color)

	obslog.L().Info("promotion resolved",
		zap.String("game_id", g.ID),
		zap.String("player_id", playerID),
		zap.String("piece", string(kind)),
	)

	go g.broadcastState(g.snapshot())
	return piece, nil
}

// afterMove hands the clocks over and records a decided game.
func (g *Game) afterMove(mover Color) {
	if g.match.Check() {
		g.sound = "check"
	}
	if clock := g.clockFor(mover); clock != nil {
		clock.Stop()
	}
	if g.match.CheckMate() {
		g.resolveGame(ResolveCheckmate, mover)
		return
	}
	if clock := g.clockFor(mover.Opposite()); clock != nil {
		clock.Start()
	}
}

func (g *Game) resolveGame(result string, winner Color) {
	g.resolve = &result
	g.winner = &winner
	if g.whiteClock != nil {
		g.whiteClock.Stop()
		g.blackClock.Stop()
	}
}

func (g *Game) clockFor(color Color) *Clock {
	if color == White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) snapshot() GameState {
	m := g.match
	state := GameState{
		Sound:          g.sound,
		Board:          m.Pieces(),
		FEN:            m.FEN(),
		ToMove:         m.SideToMove(),
		Turn:           m.Turn(),
		MoveHistory:    PairMoves(m.History()),
		CapturedPieces: CapturedPieces{White: []Piece{}, Black: []Piece{}},
		IsCheck:        m.Check(),
		IsCheckmate:    m.CheckMate(),
		PromotionPiece: m.Promoted(),
		Resolve:        g.resolve,
		Winner:         g.winner,
		Players:        g.players,
		LastMove:       g.lastMove,
	}
	for _, p := range m.CapturedPieces() {
		if p.Color == White {
			state.CapturedPieces.White = append(state.CapturedPieces.White, p)
		} else {
			state.CapturedPieces.Black = append(state.CapturedPieces.Black, p)
		}
	}
	if p := m.EnPassantVulnerable(); p != nil {
		target := p.Position.offset(-pawnDirection(p.Color), 0)
		state.EnPassantTarget = &target
	}
	if g.whiteClock != nil {
		state.Players.White.TimeLeft = g.whiteClock.GetTimeLeft().Milliseconds()
		state.Players.Black.TimeLeft = g.blackClock.GetTimeLeft().Milliseconds()
	}
	return state
}

func (g *Game) RegisterConnection(playerID string, conn Connection) error {
	g.mu.Lock()
	_, isPlayer := g.colorOf(playerID)
	isAuthorized := isPlayer || g.canSpectate()
	state := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return fmt.Errorf("%w: %s", ErrNotAPlayer, playerID)
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrDuplicateConnection
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	obslog.L().Info("connection registered", zap.String("game_id", g.ID), zap.String("player_id", playerID))
	go g.broadcastState(state)
	return nil
}

// UnregisterConnection drops conn for playerID unless a newer connection has
// replaced it.
func (g *Game) UnregisterConnection(playerID string, conn Connection) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		obslog.L().Info("connection unregistered", zap.String("game_id", g.ID), zap.String("player_id", playerID))
	}
}

func (g *Game) broadcastState(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		obslog.L().Error("marshal game state", zap.String("game_id", g.ID), zap.Error(err))
		return
	}

	g.connections.mu.RLock()
	active := make(map[string]Connection, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			obslog.L().Warn("send game state", zap.String("game_id", g.ID), zap.String("player_id", playerID), zap.Error(err))
			g.UnregisterConnection(playerID, conn)
		}
	}
}
