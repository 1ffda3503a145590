package service

import (
	"errors"
	"testing"

	"github.com/benbeisheim/chessmatch/internal/model"
	"github.com/google/uuid"
)

func newTestService(t *testing.T) (*GameService, string) {
	t.Helper()
	gs := NewGameService(NewGameManager(0))
	gameID, err := gs.CreateGame("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(gameID); err != nil {
		t.Fatalf("game id %q: %v", gameID, err)
	}
	for _, p := range []string{"w", "b"} {
		if _, err := gs.JoinGame(gameID, p); err != nil {
			t.Fatal(err)
		}
	}
	return gs, gameID
}

func TestGameServiceMoves(t *testing.T) {
	gs, gameID := newTestService(t)

	moves, err := gs.PossibleMoves(gameID, "g1")
	if err != nil || len(moves) != 2 {
		t.Errorf("PossibleMoves = %v, %v", moves, err)
	}
	if _, err := gs.HandleMove(gameID, "w", model.WSMove{From: "e2", To: "e4"}); err != nil {
		t.Fatal(err)
	}
	if _, err := gs.HandleMove(gameID, "w", model.WSMove{From: "d2", To: "d4"}); !errors.Is(err, model.ErrNotYourTurn) {
		t.Errorf("second white move: err = %v", err)
	}
	state, err := gs.GetGameState(gameID)
	if err != nil || state.ToMove != model.Black {
		t.Errorf("state = %+v, %v", state.ToMove, err)
	}

	if _, err := gs.HandleMove("missing", "w", model.WSMove{From: "e2", To: "e4"}); !errors.Is(err, model.ErrGameNotFound) {
		t.Errorf("missing game: err = %v", err)
	}
	if _, err := gs.PossibleMoves("missing", "e2"); !errors.Is(err, model.ErrGameNotFound) {
		t.Errorf("missing game: err = %v", err)
	}
}

func TestGameServicePromotion(t *testing.T) {
	gs := NewGameService(NewGameManager(0))
	gameID, err := gs.CreateGame("k7/4P3/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = gs.JoinGame(gameID, "w")
	_, _ = gs.JoinGame(gameID, "b")

	if _, err := gs.HandleMove(gameID, "w", model.WSMove{From: "e7", To: "e8"}); err != nil {
		t.Fatal(err)
	}
	if _, err := gs.HandlePromotion(gameID, "w", "dragon"); !errors.Is(err, model.ErrInvalidPromotion) {
		t.Errorf("unknown piece: err = %v", err)
	}
	if _, err := gs.HandlePromotion(gameID, "w", "king"); !errors.Is(err, model.ErrInvalidPromotion) {
		t.Errorf("king: err = %v", err)
	}
	piece, err := gs.HandlePromotion(gameID, "w", "n")
	if err != nil || piece.Type != model.Knight {
		t.Errorf("HandlePromotion = %+v, %v", piece, err)
	}
}

func TestGameServiceCreateRejectsBadFEN(t *testing.T) {
	gs := NewGameService(NewGameManager(0))
	if _, err := gs.CreateGame("8/8 w"); !errors.Is(err, model.ErrInvalidPosition) {
		t.Errorf("err = %v", err)
	}
}
