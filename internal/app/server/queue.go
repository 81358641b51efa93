package server

import (
	"sync"

	"github.com/codeduel-io/codeduel/pkg/logging"
	"go.uber.org/zap"
)

type waitingPlayer struct {
	playerId string
	category string
	conn     *conn
}

// matchmakingQueue keeps per-category FIFO waiting lists. Insertion order
// is pairing priority. A playerId may wait in at most one category at a
// time.
type matchmakingQueue struct {
	mu          sync.Mutex
	queues      map[string][]*waitingPlayer
	pairHandler func(category string, first, second *waitingPlayer)
}

func newMatchmakingQueue(pairHandler func(category string, first, second *waitingPlayer)) *matchmakingQueue {
	return &matchmakingQueue{
		queues:      make(map[string][]*waitingPlayer),
		pairHandler: pairHandler,
	}
}

func (q *matchmakingQueue) add(wp *waitingPlayer) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, queue := range q.queues {
		for _, waiting := range queue {
			if waiting.playerId == wp.playerId {
				return ErrAlreadyQueued
			}
		}
	}
	q.queues[wp.category] = append(q.queues[wp.category], wp)
	logging.Info("player queued",
		zap.String("player_id", wp.playerId),
		zap.String("category", wp.category),
		zap.Int("queue_size", len(q.queues[wp.category])),
	)
	return nil
}

// remove drops the playerId from the category queue. Absence is not an
// error: a cancel can race a pairing that already consumed the entry.
func (q *matchmakingQueue) remove(category, playerId string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	queue := q.queues[category]
	for i, waiting := range queue {
		if waiting.playerId == playerId {
			q.queues[category] = append(queue[:i], queue[i+1:]...)
			logging.Info("player left queue",
				zap.String("player_id", playerId),
				zap.String("category", category),
			)
			return true
		}
	}
	return false
}

// removeByConn is the disconnect path: it scans every category for the
// connection and removes the entry holding it.
func (q *matchmakingQueue) removeByConn(connId string) (*waitingPlayer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for category, queue := range q.queues {
		for i, waiting := range queue {
			if waiting.conn != nil && waiting.conn.id == connId {
				q.queues[category] = append(queue[:i], queue[i+1:]...)
				return waiting, true
			}
		}
	}
	return nil, false
}

// requeueFront puts players back at the head of their category queue,
// preserving their waiting priority after an aborted match. It never
// re-attempts pairing: the abort path would immediately pair the same two
// players again.
func (q *matchmakingQueue) requeueFront(players ...*waitingPlayer) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := len(players) - 1; i >= 0; i-- {
		wp := players[i]
		q.queues[wp.category] = append([]*waitingPlayer{wp}, q.queues[wp.category]...)
	}
}

// attemptPair drains the category two oldest entries at a time and hands
// each pair to the match factory. Repeats until fewer than 2 remain so a
// queue burst resolves in one pass. The handler runs outside the lock.
func (q *matchmakingQueue) attemptPair(category string) {
	q.mu.Lock()
	var pairs [][2]*waitingPlayer
	for len(q.queues[category]) >= 2 {
		queue := q.queues[category]
		first, second := queue[0], queue[1]
		q.queues[category] = queue[2:]
		pairs = append(pairs, [2]*waitingPlayer{first, second})
	}
	q.mu.Unlock()

	for _, pair := range pairs {
		q.pairHandler(category, pair[0], pair[1])
	}
}
