package model

import (
	"fmt"
	"strconv"
	"strings"
)

// FEN describes the current position in Forsyth-Edwards notation. Castling
// rights are derived from king and rook move counters.
func (m *Match) FEN() string {
	var b strings.Builder
	for row := 0; row < m.board.rows; row++ {
		if row > 0 {
			b.WriteByte('/')
		}
		empty := 0
		for col := 0; col < m.board.columns; col++ {
			p := m.board.pieces[row][col]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteByte(p.Type.fenLetter(p.Color))
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
	}

	side := "w"
	if m.SideToMove() == Black {
		side = "b"
	}

	enPassant := "-"
	if p := m.enPassantVulnerable; p != nil {
		if c, err := CoordinateFromPosition(p.Position.offset(-pawnDirection(p.Color), 0)); err == nil {
			enPassant = c.String()
		}
	}

	ply := m.turn
	if m.checkMate {
		ply++
	}
	return fmt.Sprintf("%s %s %s %s %d %d", b.String(), side, m.castlingRights(), enPassant, m.halfmoveClock, (ply+1)/2)
}

func (m *Match) castlingRights() string {
	var rights strings.Builder
	for _, color := range []Color{White, Black} {
		king := m.findKing(color)
		if king == nil || king.MoveCount != 0 {
			continue
		}
		kingSide, queenSide := byte('K'), byte('Q')
		if color == Black {
			kingSide, queenSide = 'k', 'q'
		}
		if canCastleWith(m.board, king, king.Position.offset(0, 3)) {
			rights.WriteByte(kingSide)
		}
		if canCastleWith(m.board, king, king.Position.offset(0, -4)) {
			rights.WriteByte(queenSide)
		}
	}
	if rights.Len() == 0 {
		return "-"
	}
	return rights.String()
}

func (m *Match) findKing(color Color) *Piece {
	for _, p := range m.onBoard {
		if p.Color == color && p.Type == King {
			return p
		}
	}
	return nil
}

// NewMatchFromFEN sets up a match from a FEN record. Missing trailing fields
// default to "-", "-", 0 and 1.
func NewMatchFromFEN(fen string) (*Match, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: expected 2 to 6 fields, got %d", ErrInvalidPosition, len(fields))
	}
	defaults := []string{"", "", "-", "-", "0", "1"}
	fields = append(fields, defaults[len(fields):]...)

	m := newEmptyMatch()
	if err := m.placeFromFEN(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		m.currentPlayer = White
	case "b":
		m.currentPlayer = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidPosition, fields[1])
	}

	for _, color := range []Color{White, Black} {
		n := 0
		for _, p := range m.onBoard {
			if p.Color == color && p.Type == King {
				n++
			}
		}
		if n != 1 {
			return nil, fmt.Errorf("%w: %d %s kings", ErrInvalidPosition, n, color)
		}
	}

	if err := m.applyCastlingRights(fields[2]); err != nil {
		return nil, err
	}
	if err := m.applyEnPassant(fields[3]); err != nil {
		return nil, err
	}

	half, err := strconv.Atoi(fields[4])
	if err != nil || half < 0 {
		return nil, fmt.Errorf("%w: halfmove clock %q", ErrInvalidPosition, fields[4])
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidPosition, fields[5])
	}
	m.halfmoveClock = half
	m.turn = 2*(full-1) + 1
	if m.currentPlayer == Black {
		m.turn++
	}

	if m.isInCheck(m.currentPlayer.Opposite()) {
		return nil, fmt.Errorf("%w: side not to move is in check", ErrInvalidPosition)
	}
	m.check = m.isInCheck(m.currentPlayer)
	if m.check && m.isCheckmate(m.currentPlayer) {
		m.checkMate = true
		m.currentPlayer = m.currentPlayer.Opposite()
		m.turn--
	}
	return m, nil
}

func (m *Match) placeFromFEN(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != m.board.rows {
		return fmt.Errorf("%w: expected %d ranks, got %d", ErrInvalidPosition, m.board.rows, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			kind, ok := ParsePieceType(string(ch))
			if !ok {
				return fmt.Errorf("%w: unknown piece %q", ErrInvalidPosition, ch)
			}
			color := White
			if ch >= 'a' && ch <= 'z' {
				color = Black
			}
			pos := Position{Row: row, Column: col}
			if !m.board.PositionExists(pos) {
				return fmt.Errorf("%w: rank %q is too long", ErrInvalidPosition, rank)
			}
			if kind == Pawn && (row == 0 || row == m.board.rows-1) {
				return fmt.Errorf("%w: pawn on back rank", ErrInvalidPosition)
			}
			p := m.newPiece(kind, color)
			m.put(p, pos)
			m.onBoard = append(m.onBoard, p)
			// only pawns on their starting rank may still advance two squares
			if kind == Pawn && row != m.lastRow(color.Opposite())+pawnDirection(color) {
				p.MoveCount = 1
			}
			col++
		}
		if col != m.board.columns {
			return fmt.Errorf("%w: rank %q has %d files", ErrInvalidPosition, rank, col)
		}
	}
	return nil
}

// applyCastlingRights marks kings and rooks that lost their castling rights as
// moved.
func (m *Match) applyCastlingRights(rights string) error {
	if rights != "-" && strings.Trim(rights, "KQkq") != "" {
		return fmt.Errorf("%w: castling rights %q", ErrInvalidPosition, rights)
	}
	for _, p := range m.onBoard {
		if p.Type == King || p.Type == Rook {
			p.MoveCount = 1
		}
	}
	if rights == "-" {
		return nil
	}
	for _, r := range rights {
		color, rookColumn := White, 7
		switch r {
		case 'Q':
			rookColumn = 0
		case 'k':
			color = Black
		case 'q':
			color, rookColumn = Black, 0
		}
		row := m.lastRow(color.Opposite())
		king := m.board.at(Position{Row: row, Column: 4})
		rook := m.board.at(Position{Row: row, Column: rookColumn})
		if king == nil || king.Type != King || king.Color != color || rook == nil || rook.Type != Rook || rook.Color != color {
			return fmt.Errorf("%w: castling right %q without king and rook at home", ErrInvalidPosition, r)
		}
		king.MoveCount = 0
		rook.MoveCount = 0
	}
	return nil
}

func (m *Match) applyEnPassant(square string) error {
	if square == "-" {
		return nil
	}
	c, err := ParseCoordinate(square)
	if err != nil {
		return fmt.Errorf("%w: en passant square %q", ErrInvalidPosition, square)
	}
	rank := 6
	if m.currentPlayer == Black {
		rank = 3
	}
	if c.Rank != rank {
		return fmt.Errorf("%w: en passant square %q not on rank %d", ErrInvalidPosition, square, rank)
	}
	owner := m.currentPlayer.Opposite()
	pos := c.ToPosition().offset(pawnDirection(owner), 0)
	if !m.board.PositionExists(pos) {
		return fmt.Errorf("%w: en passant square %q", ErrInvalidPosition, square)
	}
	p := m.board.at(pos)
	if p == nil || p.Type != Pawn || p.Color != owner {
		return fmt.Errorf("%w: no pawn behind en passant square %q", ErrInvalidPosition, square)
	}
	m.enPassantVulnerable = p
	return nil
}
