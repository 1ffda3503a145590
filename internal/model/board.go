package model

import (
	"errors"
	"fmt"
)

type PieceType string

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

func (p PieceType) fenLetter(color Color) byte {
	letter := byte('P')
	if p != Pawn {
		letter = p.getPieceNotation()[0]
	}
	if color == Black {
		letter += 'a' - 'A'
	}
	return letter
}

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// ParsePieceType accepts the full name or the SAN letter of a piece.
func ParsePieceType(s string) (PieceType, bool) {
	switch s {
	case "king", "K", "k":
		return King, true
	case "queen", "Q", "q":
		return Queen, true
	case "rook", "R", "r":
		return Rook, true
	case "bishop", "B", "b":
		return Bishop, true
	case "knight", "N", "n":
		return Knight, true
	case "pawn", "P", "p":
		return Pawn, true
	}
	return "", false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

type Piece struct {
	ID        int       `json:"id"`
	Type      PieceType `json:"type"`
	Color     Color     `json:"color"`
	Position  Position  `json:"position"`
	OnBoard   bool      `json:"onBoard"`
	MoveCount int       `json:"moveCount"`
}

type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (p Position) offset(dRow, dColumn int) Position {
	return Position{Row: p.Row + dRow, Column: p.Column + dColumn}
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.Column+'a', 8-p.Row)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.Column+'a')
}

// Board is a plain grid of pieces. It knows nothing about chess rules; the
// Match is its only mutator.
type Board struct {
	rows    int
	columns int
	pieces  [][]*Piece
}

func NewBoard(rows, columns int) (*Board, error) {
	if rows < 1 || columns < 1 {
		return nil, errors.New("board must have at least one row and one column")
	}
	b := &Board{rows: rows, columns: columns}
	for i := 0; i < rows; i++ {
		b.pieces = append(b.pieces, make([]*Piece, columns))
	}
	return b, nil
}

func (b *Board) Rows() int    { return b.rows }
func (b *Board) Columns() int { return b.columns }

func (b *Board) PositionExists(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.rows && pos.Column >= 0 && pos.Column < b.columns
}

func (b *Board) Piece(pos Position) (*Piece, error) {
	if !b.PositionExists(pos) {
		return nil, fmt.Errorf("%w: %+v", ErrBoardRange, pos)
	}
	return b.pieces[pos.Row][pos.Column], nil
}

func (b *Board) ThereIsAPiece(pos Position) (bool, error) {
	p, err := b.Piece(pos)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

func (b *Board) PlacePiece(piece *Piece, pos Position) error {
	if !b.PositionExists(pos) {
		return fmt.Errorf("%w: %+v", ErrBoardRange, pos)
	}
	if b.pieces[pos.Row][pos.Column] != nil {
		return fmt.Errorf("%w: %+v", ErrSquareOccupied, pos)
	}
	b.pieces[pos.Row][pos.Column] = piece
	piece.Position = pos
	piece.OnBoard = true
	return nil
}

func (b *Board) RemovePiece(pos Position) (*Piece, error) {
	if !b.PositionExists(pos) {
		return nil, fmt.Errorf("%w: %+v", ErrBoardRange, pos)
	}
	piece := b.pieces[pos.Row][pos.Column]
	if piece == nil {
		return nil, nil
	}
	b.pieces[pos.Row][pos.Column] = nil
	piece.OnBoard = false
	return piece, nil
}

// at is the unchecked read used by move generation after a PositionExists test.
func (b *Board) at(pos Position) *Piece {
	return b.pieces[pos.Row][pos.Column]
}
