package model

import (
	"fmt"
	"sync"
	"time"
)

type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

// Queue is a FIFO of players waiting for an opponent. A player can be
// waiting at most once.
type Queue struct {
	mu      sync.Mutex
	waiting []QueuedPlayer
	queued  map[string]struct{}
	now     func() time.Time
}

func NewQueue() *Queue {
	return &Queue{
		queued: make(map[string]struct{}),
		now:    time.Now,
	}
}

func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.queued[player.ID]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyQueued, player.ID)
	}
	q.queued[player.ID] = struct{}{}
	q.waiting = append(q.waiting, QueuedPlayer{Player: player, JoinedAt: q.now()})
	return nil
}

// PopPair removes the two longest-waiting players. ok is false when fewer
// than two are queued.
func (q *Queue) PopPair() (first, second QueuedPlayer, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.waiting) < 2 {
		return QueuedPlayer{}, QueuedPlayer{}, false
	}
	first, second = q.waiting[0], q.waiting[1]
	q.waiting = q.waiting[2:]
	delete(q.queued, first.Player.ID)
	delete(q.queued, second.Player.ID)
	return first, second, true
}

func (q *Queue) Contains(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.queued[playerID]
	return ok
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
