package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/chessmatch/internal/model"
)

func TestGameManagerCreateAndGet(t *testing.T) {
	gm := NewGameManager(0)

	if err := gm.CreateGame("g1", ""); err != nil {
		t.Fatal(err)
	}
	if err := gm.CreateGame("g1", ""); !errors.Is(err, model.ErrGameExists) {
		t.Errorf("duplicate game id: err = %v", err)
	}
	if err := gm.CreateGame("g2", "4k3/8/8/8/8/8/8/4K3 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	if err := gm.CreateGame("g3", "garbage"); !errors.Is(err, model.ErrInvalidPosition) {
		t.Errorf("bad FEN: err = %v", err)
	}

	state, err := gm.GetGameState("g2")
	if err != nil {
		t.Fatal(err)
	}
	if state.FEN != "4k3/8/8/8/8/8/8/4K3 w - - 0 1" {
		t.Errorf("FEN = %s", state.FEN)
	}

	if _, err := gm.GetGame("missing"); !errors.Is(err, model.ErrGameNotFound) {
		t.Errorf("missing game: err = %v", err)
	}
	if _, err := gm.AddPlayerToGame("missing", "p"); !errors.Is(err, model.ErrGameNotFound) {
		t.Errorf("join missing game: err = %v", err)
	}
	color, err := gm.AddPlayerToGame("g1", "p1")
	if err != nil || color != model.White {
		t.Errorf("AddPlayerToGame = %s, %v", color, err)
	}
}

func TestMatchmakingPairsInArrivalOrder(t *testing.T) {
	gm := NewGameManager(5 * time.Minute)

	for _, id := range []string{"alice", "bob", "carol"} {
		if err := gm.JoinMatchmaking(id); err != nil {
			t.Fatalf("JoinMatchmaking(%s): %v", id, err)
		}
	}
	if err := gm.JoinMatchmaking("alice"); !errors.Is(err, model.ErrAlreadyQueued) {
		t.Errorf("requeue: err = %v", err)
	}
	if event, queued := gm.MatchmakingStatus("alice"); event != nil || !queued {
		t.Errorf("before pairing: %+v, %v", event, queued)
	}

	gm.pairQueuedPlayers()

	alice, _ := gm.MatchmakingStatus("alice")
	bob, _ := gm.MatchmakingStatus("bob")
	if alice == nil || bob == nil {
		t.Fatalf("alice=%+v bob=%+v", alice, bob)
	}
	if alice.GameID != bob.GameID || alice.Color != model.White || bob.Color != model.Black {
		t.Errorf("alice=%+v bob=%+v", alice, bob)
	}
	if event, queued := gm.MatchmakingStatus("carol"); event != nil || !queued {
		t.Errorf("carol: %+v, %v", event, queued)
	}

	game, err := gm.GetGame(alice.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if !game.IsPlayerInGame("alice") || !game.IsPlayerInGame("bob") {
		t.Error("matched players not seated")
	}
	if state := game.GetState(); state.Players.White.TimeLeft != (5 * time.Minute).Milliseconds() {
		t.Errorf("time left = %d", state.Players.White.TimeLeft)
	}

	if err := gm.JoinMatchmaking("alice"); err != nil {
		t.Fatal(err)
	}
	if event, queued := gm.MatchmakingStatus("alice"); event != nil || !queued {
		t.Errorf("requeued alice: %+v, %v", event, queued)
	}
}

func TestRunMatchmaking(t *testing.T) {
	gm := NewGameManager(0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gm.RunMatchmaking(ctx, 5*time.Millisecond)
		close(done)
	}()

	_ = gm.JoinMatchmaking("p1")
	_ = gm.JoinMatchmaking("p2")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if event, _ := gm.MatchmakingStatus("p2"); event != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("players never matched")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunMatchmaking did not stop")
	}
}
