package model

import (
	"fmt"
	"slices"
)

// Match owns the board and every piece of a single game. It is not safe for
// concurrent use; Game serialises access to it.
type Match struct {
	board               *Board
	turn                int
	currentPlayer       Color
	onBoard             []*Piece
	captured            []*Piece
	check               bool
	checkMate           bool
	enPassantVulnerable *Piece
	promoted            *Piece
	promotionTurn       int
	halfmoveClock       int
	history             []Ply
	nextID              int
}

// moveRecord holds everything needed to undo an executed move.
type moveRecord struct {
	piece         *Piece
	source        Position
	target        Position
	captured      *Piece
	capturedAt    Position
	capturedIndex int
	rook          *Piece
	rookSource    Position
	rookTarget    Position
}

func NewMatch() *Match {
	m := newEmptyMatch()
	m.initialSetup()
	return m
}

func newEmptyMatch() *Match {
	board, _ := NewBoard(8, 8)
	return &Match{
		board:         board,
		turn:          1,
		currentPlayer: White,
	}
}

func (m *Match) Turn() int            { return m.turn }
func (m *Match) CurrentPlayer() Color { return m.currentPlayer }
func (m *Match) Check() bool          { return m.check }
func (m *Match) CheckMate() bool      { return m.checkMate }
func (m *Match) Promoted() *Piece     { return m.promoted.clone() }

func (m *Match) EnPassantVulnerable() *Piece {
	return m.enPassantVulnerable.clone()
}

// SideToMove is the color expected to play next. After checkmate the current
// player stays with the winner, so the mated side is reported instead.
func (m *Match) SideToMove() Color {
	if m.checkMate {
		return m.currentPlayer.Opposite()
	}
	return m.currentPlayer
}

// Pieces returns a snapshot of the board indexed by row and column.
func (m *Match) Pieces() [][]*Piece {
	out := make([][]*Piece, m.board.rows)
	for i := range out {
		out[i] = make([]*Piece, m.board.columns)
		for j := range out[i] {
			out[i][j] = m.board.pieces[i][j].clone()
		}
	}
	return out
}

// CapturedPieces lists captured pieces in capture order.
func (m *Match) CapturedPieces() []Piece {
	out := make([]Piece, 0, len(m.captured))
	for _, p := range m.captured {
		out = append(out, *p)
	}
	return out
}

func (m *Match) History() []Ply {
	return slices.Clone(m.history)
}

func (p *Piece) clone() *Piece {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (m *Match) PossibleMoves(source Coordinate) ([][]bool, error) {
	return m.validateSourcePosition(source)
}

func (m *Match) PerformMove(sourceCoord, targetCoord Coordinate) (*Piece, error) {
	if m.checkMate {
		return nil, ErrMatchFinished
	}
	if m.promoted != nil {
		return nil, ErrPromotionPending
	}
	mat, err := m.validateSourcePosition(sourceCoord)
	if err != nil {
		return nil, err
	}
	source, target := sourceCoord.ToPosition(), targetCoord.ToPosition()
	if !m.board.PositionExists(target) {
		return nil, fmt.Errorf("%w: %+v", ErrMalformedCoordinate, targetCoord)
	}
	if !mat[target.Row][target.Column] {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalDestination, sourceCoord, targetCoord)
	}

	rec := m.executeMove(source, target)
	if m.isInCheck(m.currentPlayer) {
		m.rollback(rec)
		return nil, fmt.Errorf("%w: %s to %s", ErrSelfCheck, sourceCoord, targetCoord)
	}
	m.commit(rec)
	return rec.captured.clone(), nil
}

func (m *Match) ReplacePromotedPiece(kind PieceType) (*Piece, error) {
	if m.promoted == nil {
		return nil, ErrNoPendingPromotion
	}
	switch kind {
	case Bishop, Knight, Queen, Rook:
	default:
		return m.promoted.clone(), fmt.Errorf("%w: %q", ErrInvalidPromotion, kind)
	}
	mover := m.promoted.Color
	newPiece := m.replacePiece(m.promoted, kind)
	m.promoted = nil
	m.history[len(m.history)-1].Promotion = kind
	m.settle(mover, m.promotionTurn)
	return newPiece.clone(), nil
}

func (m *Match) validateSourcePosition(coord Coordinate) ([][]bool, error) {
	pos := coord.ToPosition()
	if !m.board.PositionExists(pos) {
		return nil, fmt.Errorf("%w: %+v", ErrMalformedCoordinate, coord)
	}
	piece := m.board.at(pos)
	if piece == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, coord)
	}
	if piece.Color != m.currentPlayer {
		return nil, fmt.Errorf("%w: %s", ErrNotYourPiece, coord)
	}
	mat := m.destinations(piece, m.check)
	if !anyMove(mat) {
		return nil, fmt.Errorf("%w: %s", ErrNoPossibleMoves, coord)
	}
	return mat, nil
}

func (m *Match) destinations(piece *Piece, kingInCheck bool) [][]bool {
	return possibleMoves(m.board, piece, moveContext{
		enPassantVulnerable: m.enPassantVulnerable,
		kingInCheck:         kingInCheck,
	})
}

// commit applies the bookkeeping of a move that has passed the self-check test.
func (m *Match) commit(rec moveRecord) {
	mover := m.currentPlayer
	moved := rec.piece
	ply := newPly(m.turn, rec)

	if moved.Type == Pawn && rec.target.Row == m.lastRow(mover) {
		m.promotionTurn = m.turn
		m.promoted = m.replacePiece(moved, Queen)
		ply.Promotion = Queen
	}

	m.enPassantVulnerable = nil
	if moved.Type == Pawn && abs(rec.target.Row-rec.source.Row) == 2 {
		m.enPassantVulnerable = moved
	}

	if moved.Type == Pawn || rec.captured != nil {
		m.halfmoveClock = 0
	} else {
		m.halfmoveClock++
	}

	m.history = append(m.history, ply)
	m.settle(mover, m.turn)
}

// settle recomputes check and checkmate for the side that did not move and
// hands over the turn unless the game is decided. moveTurn is the turn
// number the move was played on.
func (m *Match) settle(mover Color, moveTurn int) {
	opponent := mover.Opposite()
	m.check = m.isInCheck(opponent)
	m.checkMate = m.check && m.isCheckmate(opponent)
	if m.checkMate {
		m.turn = moveTurn
		m.currentPlayer = mover
	} else {
		m.turn = moveTurn + 1
		m.currentPlayer = opponent
	}

	last := &m.history[len(m.history)-1]
	last.Check = m.check
	last.Checkmate = m.checkMate
	last.Notation = last.notation()
}

func (m *Match) lastRow(color Color) int {
	if color == White {
		return 0
	}
	return m.board.rows - 1
}

func (m *Match) executeMove(source, target Position) moveRecord {
	p := m.lift(source)
	p.MoveCount++
	rec := moveRecord{piece: p, source: source, target: target}

	if captured := m.lift(target); captured != nil {
		rec.captured = captured
		rec.capturedAt = target
	}
	m.put(p, target)

	if p.Type == King && abs(target.Column-source.Column) == 2 {
		rec.rookSource = source.offset(0, 3)
		rec.rookTarget = source.offset(0, 1)
		if target.Column < source.Column {
			rec.rookSource = source.offset(0, -4)
			rec.rookTarget = source.offset(0, -1)
		}
		if rook := m.lift(rec.rookSource); rook != nil {
			m.put(rook, rec.rookTarget)
			rook.MoveCount++
			rec.rook = rook
		}
	}

	if p.Type == Pawn && source.Column != target.Column && rec.captured == nil {
		behind := Position{Row: source.Row, Column: target.Column}
		if captured := m.lift(behind); captured != nil {
			rec.captured = captured
			rec.capturedAt = behind
		}
	}

	if rec.captured != nil {
		rec.capturedIndex = m.capture(rec.captured)
	}
	return rec
}

func (m *Match) rollback(rec moveRecord) {
	p := m.lift(rec.target)
	p.MoveCount--
	m.put(p, rec.source)

	if rec.rook != nil {
		m.lift(rec.rookTarget)
		rec.rook.MoveCount--
		m.put(rec.rook, rec.rookSource)
	}

	if rec.captured != nil {
		m.put(rec.captured, rec.capturedAt)
		m.captured = m.captured[:len(m.captured)-1]
		m.onBoard = slices.Insert(m.onBoard, rec.capturedIndex, rec.captured)
	}
}

// capture moves p from the board roster to the captured roster and returns
// its former roster index.
func (m *Match) capture(p *Piece) int {
	i := slices.Index(m.onBoard, p)
	if i < 0 {
		panic(fmt.Sprintf("captured %s %s is not in the roster", p.Color, p.Type))
	}
	m.onBoard = slices.Delete(m.onBoard, i, i+1)
	m.captured = append(m.captured, p)
	return i
}

func (m *Match) replacePiece(old *Piece, kind PieceType) *Piece {
	pos := old.Position
	m.lift(pos)
	if i := slices.Index(m.onBoard, old); i >= 0 {
		m.onBoard = slices.Delete(m.onBoard, i, i+1)
	}
	p := m.newPiece(kind, old.Color)
	p.MoveCount = old.MoveCount
	m.put(p, pos)
	m.onBoard = append(m.onBoard, p)
	return p
}

func (m *Match) king(color Color) *Piece {
	for _, p := range m.onBoard {
		if p.Color == color && p.Type == King {
			return p
		}
	}
	panic(fmt.Sprintf("no %s king on the board", color))
}

func (m *Match) isInCheck(color Color) bool {
	kingPos := m.king(color).Position
	for _, p := range m.onBoard {
		if p.Color == color {
			continue
		}
		// castling never lands on an occupied square, so its state is irrelevant here
		if m.destinations(p, false)[kingPos.Row][kingPos.Column] {
			return true
		}
	}
	return false
}

func (m *Match) isCheckmate(color Color) bool {
	if !m.isInCheck(color) {
		return false
	}
	var pieces []*Piece
	for _, p := range m.onBoard {
		if p.Color == color {
			pieces = append(pieces, p)
		}
	}
	for _, p := range pieces {
		source := p.Position
		mat := m.destinations(p, true)
		for i := range mat {
			for j := range mat[i] {
				if !mat[i][j] {
					continue
				}
				rec := m.executeMove(source, Position{Row: i, Column: j})
				stillInCheck := m.isInCheck(color)
				m.rollback(rec)
				if !stillInCheck {
					return false
				}
			}
		}
	}
	return true
}

func (m *Match) lift(pos Position) *Piece {
	p, err := m.board.RemovePiece(pos)
	if err != nil {
		panic(fmt.Sprintf("board invariant violated: %v", err))
	}
	return p
}

func (m *Match) put(p *Piece, pos Position) {
	if err := m.board.PlacePiece(p, pos); err != nil {
		panic(fmt.Sprintf("board invariant violated: %v", err))
	}
}

func (m *Match) newPiece(kind PieceType, color Color) *Piece {
	m.nextID++
	return &Piece{ID: m.nextID, Type: kind, Color: color}
}

func (m *Match) placeNewPiece(square string, kind PieceType, color Color) *Piece {
	p := m.newPiece(kind, color)
	m.put(p, mustCoordinate(square).ToPosition())
	m.onBoard = append(m.onBoard, p)
	return p
}

func (m *Match) initialSetup() {
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for i, kind := range backRank {
		file := string(rune('a' + i))
		m.placeNewPiece(file+"1", kind, White)
		m.placeNewPiece(file+"2", Pawn, White)
	}
	for i, kind := range backRank {
		file := string(rune('a' + i))
		m.placeNewPiece(file+"8", kind, Black)
		m.placeNewPiece(file+"7", Pawn, Black)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
