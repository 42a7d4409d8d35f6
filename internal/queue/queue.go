package queue

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

// Store mirrors queue membership into external storage. The in-memory
// buckets stay authoritative; mirror failures are logged and ignored.
type Store interface {
	SaveQueueEntry(ctx context.Context, e model.QueueEntry) error
	RemoveQueueEntry(ctx context.Context, userID string) error
}

// JoinResult reports the outcome of a Join call. Exactly one of Matched or
// a waiting position applies.
type JoinResult struct {
	Matched  bool
	Opponent model.QueueEntry
	Entry    model.QueueEntry
	Position int
}

// Queue holds waiting players in per-difficulty FIFO buckets. A single
// mutex guards all buckets so pair-or-insert is atomic: two concurrent
// joins at the same difficulty produce exactly one pairing.
type Queue struct {
	mu      sync.Mutex
	buckets map[model.Difficulty][]model.QueueEntry
	store   Store
}

func NewQueue(store Store) *Queue {
	return &Queue{
		buckets: make(map[model.Difficulty][]model.QueueEntry),
		store:   store,
	}
}

// Join enqueues a player, or pairs them with the oldest waiting player at
// the same difficulty. A user already waiting is moved, not duplicated:
// their previous entry is dropped before the new one is considered, so a
// rejoin at a different difficulty never leaves a ghost entry behind.
func (q *Queue) Join(ctx context.Context, userID, username string, difficulty model.Difficulty) (JoinResult, error) {
	if !model.ValidDifficulty(difficulty) {
		return JoinResult{}, model.ErrInvalidDifficulty
	}
	if userID == "" {
		return JoinResult{}, model.ErrEmptyUserID
	}

	entry := model.QueueEntry{
		UserID:     userID,
		Username:   username,
		Difficulty: difficulty,
		JoinedAt:   time.Now(),
	}

	q.mu.Lock()
	q.removeLocked(userID)

	bucket := q.buckets[difficulty]
	if len(bucket) > 0 {
		opponent := bucket[0]
		q.buckets[difficulty] = bucket[1:]
		q.mu.Unlock()

		q.mirrorRemove(ctx, opponent.UserID)
		log.Printf("[Queue] Paired %s with %s at difficulty %s", userID, opponent.UserID, difficulty)
		return JoinResult{Matched: true, Opponent: opponent, Entry: entry}, nil
	}

	q.buckets[difficulty] = append(bucket, entry)
	position := len(q.buckets[difficulty])
	q.mu.Unlock()

	if q.store != nil {
		if err := q.store.SaveQueueEntry(ctx, entry); err != nil {
			log.Printf("[Queue] Failed to mirror entry for %s: %v", userID, err)
		}
	}
	return JoinResult{Entry: entry, Position: position}, nil
}

// Leave removes a waiting player. Returns false when the player was not in
// any bucket, which callers treat as a no-op rather than an error.
func (q *Queue) Leave(ctx context.Context, userID string) bool {
	q.mu.Lock()
	removed := q.removeLocked(userID)
	q.mu.Unlock()

	if removed {
		q.mirrorRemove(ctx, userID)
	}
	return removed
}

// Waiting returns the number of players waiting at a difficulty.
func (q *Queue) Waiting(difficulty model.Difficulty) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buckets[difficulty])
}

// Contains reports whether a user is currently waiting.
func (q *Queue) Contains(userID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, bucket := range q.buckets {
		for _, e := range bucket {
			if e.UserID == userID {
				return true
			}
		}
	}
	return false
}

func (q *Queue) removeLocked(userID string) bool {
	for d, bucket := range q.buckets {
		for i, e := range bucket {
			if e.UserID == userID {
				q.buckets[d] = append(bucket[:i:i], bucket[i+1:]...)
				return true
			}
		}
	}
	return false
}

func (q *Queue) mirrorRemove(ctx context.Context, userID string) {
	if q.store == nil {
		return
	}
	if err := q.store.RemoveQueueEntry(ctx, userID); err != nil {
		log.Printf("[Queue] Failed to remove mirrored entry for %s: %v", userID, err)
	}
}
