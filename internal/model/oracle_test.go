package model

import (
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
)

// These tests replay games against an independent rules implementation and
// compare the resulting positions.

func newReferenceGame(t *testing.T, fen string) *nchess.Game {
	t.Helper()
	if fen == "" {
		return nchess.NewGame()
	}
	opt, err := nchess.FEN(fen)
	if err != nil {
		t.Fatalf("reference FEN(%q): %v", fen, err)
	}
	return nchess.NewGame(opt)
}

// positionFields keeps placement, side to move and castling rights.
func positionFields(fen string) string {
	return strings.Join(strings.Fields(fen)[:3], " ")
}

func playBoth(t *testing.T, fen string, moves ...string) (*Match, *nchess.Game) {
	t.Helper()
	m := NewMatch()
	if fen != "" {
		m = mustFEN(t, fen)
	}
	ref := newReferenceGame(t, fen)

	for _, mv := range moves {
		if err := ref.PushNotationMove(mv, nchess.UCINotation{}, nil); err != nil {
			t.Fatalf("reference rejected %s: %v", mv, err)
		}
		if _, err := m.PerformMove(mustCoordinate(mv[:2]), mustCoordinate(mv[2:4])); err != nil {
			t.Fatalf("%s: %v", mv, err)
		}
		if len(mv) == 5 {
			kind, _ := ParsePieceType(mv[4:])
			if _, err := m.ReplacePromotedPiece(kind); err != nil {
				t.Fatalf("%s: %v", mv, err)
			}
		}
		if got, want := positionFields(m.FEN()), positionFields(ref.FEN()); got != want {
			t.Fatalf("after %s:\n got %s\nwant %s", mv, got, want)
		}
	}
	return m, ref
}

func TestGamesMatchReference(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
	}{
		{"italian with castling", "", []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5", "e1g1", "g8f6", "d2d3", "e8g8"}},
		{"en passant", "", []string{"e2e4", "a7a6", "e4e5", "d7d5", "e5d6", "c7d6"}},
		{"queen side castling", "", []string{"d2d4", "d7d5", "b1c3", "b8c6", "c1f4", "c8f5", "d1d2", "d8d7", "e1c1", "e8c8"}},
		{"captures and checks", "", []string{"e2e4", "d7d5", "e4d5", "d8d5", "b1c3", "d5e5", "f1e2", "e5e4", "c3e4"}},
		{"knight under promotion", "k7/4P3/8/8/8/8/8/4K3 w - - 0 1", []string{"e7e8n", "a8b7"}},
		{"rook promotion with check", "k7/4P3/8/8/8/8/8/4K3 w - - 0 1", []string{"e7e8r", "a8b7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			playBoth(t, tt.fen, tt.moves...)
		})
	}
}

func TestCheckmatesMatchReference(t *testing.T) {
	tests := []struct {
		name   string
		moves  []string
		winner nchess.Outcome
		color  Color
	}{
		{"fool's mate", []string{"f2f3", "e7e5", "g2g4", "d8h4"}, nchess.BlackWon, Black},
		{"scholar's mate", []string{"e2e4", "e7e5", "d1h5", "b8c6", "f1c4", "g8f6", "h5f7"}, nchess.WhiteWon, White},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ref := playBoth(t, "", tt.moves...)
			if ref.Outcome() != tt.winner || ref.Method() != nchess.Checkmate {
				t.Fatalf("reference outcome %s by %s", ref.Outcome(), ref.Method())
			}
			if !m.CheckMate() || m.CurrentPlayer() != tt.color {
				t.Errorf("mate=%v winner=%s", m.CheckMate(), m.CurrentPlayer())
			}
		})
	}
}

// legalMoveCount counts moves for the side to move that survive the
// self-check test.
func legalMoveCount(m *Match) int {
	color := m.currentPlayer
	var pieces []*Piece
	for _, p := range m.onBoard {
		if p.Color == color {
			pieces = append(pieces, p)
		}
	}
	n := 0
	for _, p := range pieces {
		source := p.Position
		mat := m.destinations(p, m.check)
		for i := range mat {
			for j := range mat[i] {
				if !mat[i][j] {
					continue
				}
				rec := m.executeMove(source, Position{Row: i, Column: j})
				if !m.isInCheck(color) {
					n++
				}
				m.rollback(rec)
			}
		}
	}
	return n
}

func TestLegalMoveCountsMatchReference(t *testing.T) {
	for _, fen := range []string{
		startFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"r3k2r/8/8/3pP3/8/8/8/R3K2R w KQkq d6 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/r3K3 w - - 0 1",
	} {
		t.Run(fen, func(t *testing.T) {
			m := mustFEN(t, fen)
			ref := newReferenceGame(t, fen)
			if got, want := legalMoveCount(m), len(ref.ValidMoves()); got != want {
				t.Errorf("legal moves = %d, want %d", got, want)
			}
		})
	}
}
