package model

import "fmt"

// Coordinate is a square in algebraic form, file 'a'..'h' and rank 1..8.
type Coordinate struct {
	File byte
	Rank int
}

func NewCoordinate(file byte, rank int) (Coordinate, error) {
	if file < 'a' || file > 'h' || rank < 1 || rank > 8 {
		return Coordinate{}, fmt.Errorf("%w: %q%d", ErrMalformedCoordinate, file, rank)
	}
	return Coordinate{File: file, Rank: rank}, nil
}

// ParseCoordinate reads boundary input such as "e2".
func ParseCoordinate(s string) (Coordinate, error) {
	if len(s) != 2 || s[1] < '0' || s[1] > '9' {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	return NewCoordinate(s[0], int(s[1]-'0'))
}

func CoordinateFromPosition(pos Position) (Coordinate, error) {
	if pos.Row < 0 || pos.Row > 7 || pos.Column < 0 || pos.Column > 7 {
		return Coordinate{}, fmt.Errorf("%w: %+v", ErrMalformedCoordinate, pos)
	}
	return NewCoordinate(byte('a'+pos.Column), 8-pos.Row)
}

func (c Coordinate) ToPosition() Position {
	return Position{Row: 8 - c.Rank, Column: int(c.File - 'a')}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%c%d", c.File, c.Rank)
}

func mustCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}
