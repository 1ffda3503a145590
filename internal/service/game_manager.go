// service/game_manager.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessmatch/internal/model"
	"github.com/benbeisheim/chessmatch/internal/obslog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GameManager struct {
	games       map[string]*model.Game
	queue       *model.Queue
	matched     map[string]model.MatchFoundEvent // playerID -> game found by matchmaking
	timeControl time.Duration
	mu          sync.RWMutex
}

func NewGameManager(timeControl time.Duration) *GameManager {
	return &GameManager{
		games:       make(map[string]*model.Game),
		queue:       model.NewQueue(),
		matched:     make(map[string]model.MatchFoundEvent),
		timeControl: timeControl,
	}
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.pairQueuedPlayers()
		}
	}
}

func (gm *GameManager) pairQueuedPlayers() {
	for {
		first, second, ok := gm.queue.PopPair()
		if !ok {
			return
		}
		player1, player2 := first.Player, second.Player

		gameID := uuid.New().String()
		game := model.NewGame(gameID, gm.timeControl)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			obslog.L().Error("seat matched player", zap.String("game_id", gameID), zap.Error(err))
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			obslog.L().Error("seat matched player", zap.String("game_id", gameID), zap.Error(err))
			continue
		}

		gm.mu.Lock()
		gm.games[gameID] = game
		gm.matched[player1.ID] = model.MatchFoundEvent{GameID: gameID, Color: p1Color}
		gm.matched[player2.ID] = model.MatchFoundEvent{GameID: gameID, Color: p2Color}
		gm.mu.Unlock()

		obslog.L().Info("players matched",
			zap.String("game_id", gameID),
			zap.String("white_id", player1.ID),
			zap.String("black_id", player2.ID),
			zap.Duration("longest_wait", time.Since(first.JoinedAt)),
		)
	}
}

// CreateGame registers a new game, from the initial position when fen is
// empty.
func (gm *GameManager) CreateGame(gameID, fen string) error {
	game := model.NewGame(gameID, gm.timeControl)
	if fen != "" {
		var err error
		if game, err = model.NewGameFromFEN(gameID, fen, gm.timeControl); err != nil {
			return err
		}
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("%w: %s", model.ErrGameExists, gameID)
	}
	gm.games[gameID] = game
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", model.ErrGameNotFound, gameID)
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matched, playerID)
	gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	obslog.L().Debug("player queued", zap.String("player_id", playerID), zap.Int("queue_size", gm.queue.Size()))
	return nil
}

// MatchmakingStatus reports the game found for playerID, if any, and whether
// the player is still waiting.
func (gm *GameManager) MatchmakingStatus(playerID string) (*model.MatchFoundEvent, bool) {
	gm.mu.RLock()
	event, ok := gm.matched[playerID]
	gm.mu.RUnlock()
	if ok {
		return &event, false
	}
	return nil, gm.queue.Contains(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}
