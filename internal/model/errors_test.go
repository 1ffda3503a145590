package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrSelfCheck, "self_check"},
		{fmt.Errorf("%w: e2 to e5", ErrIllegalDestination), "illegal_destination"},
		{fmt.Errorf("join: %w", fmt.Errorf("%w: abc", ErrGameNotFound)), "game_not_found"},
		{ErrDuplicateConnection, "duplicate_connection"},
		{fmt.Errorf("%w: g1", ErrGameExists), "game_exists"},
		{errors.New("disk on fire"), "internal"},
		{nil, "internal"},
	}
	for _, tt := range tests {
		if got := ErrorCode(tt.err); got != tt.want {
			t.Errorf("ErrorCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
