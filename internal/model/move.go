package model

import "strings"

// WSMove is a move as submitted by a client, squares in algebraic form.
type WSMove struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type Ply struct {
	Turn           int             `json:"turn"`
	Piece          PieceType       `json:"piece"`
	Color          Color           `json:"color"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	EnPassant      bool            `json:"enPassant"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion"`
	Check          bool            `json:"check"`
	Checkmate      bool            `json:"checkmate"`
	Notation       string          `json:"notation"`
}

type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func newPly(turn int, rec moveRecord) Ply {
	ply := Ply{
		Turn:          turn,
		Piece:         rec.piece.Type,
		Color:         rec.piece.Color,
		From:          rec.source,
		To:            rec.target,
		CapturedPiece: rec.captured.clone(),
		EnPassant:     rec.captured != nil && rec.capturedAt != rec.target,
	}
	if rec.rook != nil {
		ply.CastleRookMove = &CastleRookMove{From: rec.rookSource, To: rec.rookTarget}
	}
	return ply
}

// notation renders the ply in short algebraic form without disambiguation.
func (p Ply) notation() string {
	var b strings.Builder
	switch {
	case p.CastleRookMove != nil && p.To.Column > p.From.Column:
		b.WriteString("O-O")
	case p.CastleRookMove != nil:
		b.WriteString("O-O-O")
	default:
		b.WriteString(p.Piece.getPieceNotation())
		if p.CapturedPiece != nil {
			if p.Piece == Pawn {
				b.WriteString(p.From.getFileNotation())
			}
			b.WriteString("x")
		}
		b.WriteString(p.To.getSquareNotation())
		if p.Promotion != "" {
			b.WriteString("=" + p.Promotion.getPieceNotation())
		}
	}
	switch {
	case p.Checkmate:
		b.WriteString("#")
	case p.Check:
		b.WriteString("+")
	}
	return b.String()
}

// PairMoves groups plies into numbered moves, white first.
func PairMoves(plies []Ply) []Move {
	moves := make([]Move, 0, (len(plies)+1)/2)
	for i := range plies {
		ply := &plies[i]
		if ply.Color == White || len(moves) == 0 {
			moves = append(moves, Move{})
		}
		if ply.Color == White {
			moves[len(moves)-1].WhitePly = ply
		} else {
			moves[len(moves)-1].BlackPly = ply
		}
	}
	return moves
}
