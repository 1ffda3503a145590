package model

import (
	"errors"
	"slices"
	"testing"
)

func mustFEN(t *testing.T, fen string) *Match {
	t.Helper()
	m, err := NewMatchFromFEN(fen)
	if err != nil {
		t.Fatalf("NewMatchFromFEN(%q): %v", fen, err)
	}
	return m
}

func squaresFrom(t *testing.T, m *Match, square string) []string {
	t.Helper()
	mat, err := m.PossibleMoves(mustCoordinate(square))
	if err != nil {
		t.Fatalf("PossibleMoves(%s): %v", square, err)
	}
	got := markedSquares(mat)
	slices.Sort(got)
	return got
}

func sorted(squares ...string) []string {
	slices.Sort(squares)
	return squares
}

func TestPossibleMovesPerPiece(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		square string
		want   []string
	}{
		{
			name:   "knight from start",
			fen:    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			square: "b1",
			want:   sorted("a3", "c3"),
		},
		{
			name:   "pawn from start",
			fen:    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			square: "e2",
			want:   sorted("e3", "e4"),
		},
		{
			name:   "knight in corner",
			fen:    "4k3/8/8/8/8/8/8/N3K3 w - - 0 1",
			square: "a1",
			want:   sorted("b3", "c2"),
		},
		{
			name:   "lone king",
			fen:    "4k3/8/8/8/8/8/8/4K3 w - - 0 1",
			square: "e1",
			want:   sorted("d1", "d2", "e2", "f2", "f1"),
		},
		{
			name:   "pawn capture",
			fen:    "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1",
			square: "e4",
			want:   sorted("d5", "e5"),
		},
		{
			name:   "black pawn moves down the board",
			fen:    "4k3/3p4/8/8/8/8/8/4K3 b - - 0 1",
			square: "d7",
			want:   sorted("d6", "d5"),
		},
		{
			name:   "rook stops at capture",
			fen:    "4k3/8/3p4/8/3R4/8/8/4K3 w - - 0 1",
			square: "d4",
			want:   sorted("d5", "d6", "d3", "d2", "d1", "a4", "b4", "c4", "e4", "f4", "g4", "h4"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustFEN(t, tt.fen)
			if got := squaresFrom(t, m, tt.square); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlidingPieceReach(t *testing.T) {
	tests := []struct {
		fen  string
		want int
	}{
		{"4k3/8/8/8/3R4/8/8/4K3 w - - 0 1", 14},
		{"4k3/8/8/8/3B4/8/8/4K3 w - - 0 1", 13},
		{"4k3/8/8/8/3Q4/8/8/4K3 w - - 0 1", 27},
	}
	for _, tt := range tests {
		m := mustFEN(t, tt.fen)
		if got := squaresFrom(t, m, "d4"); len(got) != tt.want {
			t.Errorf("%s: %d squares %v, want %d", tt.fen, len(got), got, tt.want)
		}
	}
}

func TestPossibleMovesSourceErrors(t *testing.T) {
	m := NewMatch()
	tests := []struct {
		square string
		want   error
	}{
		{"e4", ErrEmptySource},
		{"e7", ErrNotYourPiece},
		{"a1", ErrNoPossibleMoves},
		{"d1", ErrNoPossibleMoves},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			if _, err := m.PossibleMoves(mustCoordinate(tt.square)); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := m.PossibleMoves(Coordinate{}); !errors.Is(err, ErrMalformedCoordinate) {
		t.Errorf("zero coordinate: err = %v", err)
	}
}

func TestBlockedPawnHasNoMoves(t *testing.T) {
	m := mustFEN(t, "4k3/8/8/8/8/4p3/4P3/4K3 w - - 0 1")
	if _, err := m.PossibleMoves(mustCoordinate("e2")); !errors.Is(err, ErrNoPossibleMoves) {
		t.Errorf("err = %v", err)
	}
}

func TestCastlingAvailability(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		kingSide  bool
		queenSide bool
	}{
		{"both sides", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"knight blocks queen side", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", true, false},
		{"bishop blocks king side", "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1", false, true},
		{"rights lost", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", false, false},
		{"only queen side right", "r3k2r/8/8/8/8/8/8/R3K2R w Q - 0 1", false, true},
		{"king in check", "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustFEN(t, tt.fen)
			got := squaresFrom(t, m, "e1")
			if slices.Contains(got, "g1") != tt.kingSide {
				t.Errorf("g1 reachable = %v, want %v (moves %v)", !tt.kingSide, tt.kingSide, got)
			}
			if slices.Contains(got, "c1") != tt.queenSide {
				t.Errorf("c1 reachable = %v, want %v (moves %v)", !tt.queenSide, tt.queenSide, got)
			}
		})
	}
}

func TestEnPassantWindow(t *testing.T) {
	m := NewMatch()
	play(t, m, "e2e4", "a7a6", "e4e5", "d7d5")
	if got := squaresFrom(t, m, "e5"); !slices.Equal(got, sorted("d6", "e6")) {
		t.Fatalf("right after the double step: %v", got)
	}

	m = NewMatch()
	play(t, m, "e2e4", "a7a6", "e4e5", "d7d5", "h2h3", "h7h6")
	if got := squaresFrom(t, m, "e5"); !slices.Equal(got, []string{"e6"}) {
		t.Errorf("one move later: %v", got)
	}
}

func TestEnPassantFromFEN(t *testing.T) {
	m := mustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	if got := squaresFrom(t, m, "e5"); !slices.Equal(got, sorted("d6", "e6")) {
		t.Errorf("got %v", got)
	}
}
