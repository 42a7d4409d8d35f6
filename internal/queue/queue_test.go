package queue

import (
	"context"
	"sync"
	"testing"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

func TestJoinFirstPlayerWaits(t *testing.T) {
	q := NewQueue(nil)

	res, err := q.Join(context.Background(), "u1", "alice", model.DifficultyEasy)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if res.Matched {
		t.Fatal("expected first player to wait, got a match")
	}
	if res.Position != 1 {
		t.Errorf("expected position 1, got %d", res.Position)
	}
	if q.Waiting(model.DifficultyEasy) != 1 {
		t.Errorf("expected 1 waiting, got %d", q.Waiting(model.DifficultyEasy))
	}
}

func TestJoinSameDifficultyPairs(t *testing.T) {
	q := NewQueue(nil)
	ctx := context.Background()

	if _, err := q.Join(ctx, "u1", "alice", model.DifficultyMedium); err != nil {
		t.Fatalf("Join u1 failed: %v", err)
	}
	res, err := q.Join(ctx, "u2", "bob", model.DifficultyMedium)
	if err != nil {
		t.Fatalf("Join u2 failed: %v", err)
	}

	if !res.Matched {
		t.Fatal("expected second join to pair")
	}
	if res.Opponent.UserID != "u1" {
		t.Errorf("expected opponent u1, got %s", res.Opponent.UserID)
	}
	if q.Waiting(model.DifficultyMedium) != 0 {
		t.Errorf("expected empty bucket after pairing, got %d", q.Waiting(model.DifficultyMedium))
	}
}

func TestJoinDifferentDifficultiesDoNotPair(t *testing.T) {
	q := NewQueue(nil)
	ctx := context.Background()

	q.Join(ctx, "u1", "alice", model.DifficultyEasy)
	res, _ := q.Join(ctx, "u2", "bob", model.DifficultyHard)

	if res.Matched {
		t.Fatal("players at different difficulties must not pair")
	}
	if q.Waiting(model.DifficultyEasy) != 1 || q.Waiting(model.DifficultyHard) != 1 {
		t.Error("expected one waiting player in each bucket")
	}
}

func TestRejoinMovesEntry(t *testing.T) {
	q := NewQueue(nil)
	ctx := context.Background()

	q.Join(ctx, "u1", "alice", model.DifficultyEasy)
	q.Join(ctx, "u1", "alice", model.DifficultyHard)

	if q.Waiting(model.DifficultyEasy) != 0 {
		t.Errorf("expected old entry removed, easy bucket has %d", q.Waiting(model.DifficultyEasy))
	}
	if q.Waiting(model.DifficultyHard) != 1 {
		t.Errorf("expected new entry in hard bucket, got %d", q.Waiting(model.DifficultyHard))
	}

	// Rejoining at the same difficulty must not pair a player with themselves.
	res, err := q.Join(ctx, "u1", "alice", model.DifficultyHard)
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if res.Matched {
		t.Fatal("player paired with themselves on rejoin")
	}
	if q.Waiting(model.DifficultyHard) != 1 {
		t.Errorf("expected single entry after rejoin, got %d", q.Waiting(model.DifficultyHard))
	}
}

func TestJoinInvalidDifficulty(t *testing.T) {
	q := NewQueue(nil)

	_, err := q.Join(context.Background(), "u1", "alice", "expert")
	if err != model.ErrInvalidDifficulty {
		t.Fatalf("expected ErrInvalidDifficulty, got %v", err)
	}
}

func TestLeave(t *testing.T) {
	q := NewQueue(nil)
	ctx := context.Background()

	q.Join(ctx, "u1", "alice", model.DifficultyEasy)

	if !q.Leave(ctx, "u1") {
		t.Fatal("expected Leave to remove waiting player")
	}
	if q.Leave(ctx, "u1") {
		t.Fatal("expected second Leave to be a no-op")
	}
	if q.Contains("u1") {
		t.Error("player still present after Leave")
	}
}

func TestConcurrentJoinsPairExactlyOnce(t *testing.T) {
	q := NewQueue(nil)
	ctx := context.Background()

	const players = 20
	results := make([]JoinResult, players)

	var wg sync.WaitGroup
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			res, err := q.Join(ctx, id, id, model.DifficultyEasy)
			if err != nil {
				t.Errorf("Join %s failed: %v", id, err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	matched := 0
	for _, r := range results {
		if r.Matched {
			matched++
		}
	}
	if matched != players/2 {
		t.Errorf("expected %d pairings, got %d", players/2, matched)
	}
	if q.Waiting(model.DifficultyEasy) != 0 {
		t.Errorf("expected empty bucket, got %d waiting", q.Waiting(model.DifficultyEasy))
	}

	// Each pairing consumed a distinct opponent.
	seen := make(map[string]bool)
	for _, r := range results {
		if !r.Matched {
			continue
		}
		if seen[r.Opponent.UserID] {
			t.Errorf("opponent %s paired twice", r.Opponent.UserID)
		}
		seen[r.Opponent.UserID] = true
	}
}

type recordingStore struct {
	mu      sync.Mutex
	saved   []string
	removed []string
}

func (s *recordingStore) SaveQueueEntry(_ context.Context, e model.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, e.UserID)
	return nil
}

func (s *recordingStore) RemoveQueueEntry(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, userID)
	return nil
}

func TestMirrorWriteThrough(t *testing.T) {
	store := &recordingStore{}
	q := NewQueue(store)
	ctx := context.Background()

	q.Join(ctx, "u1", "alice", model.DifficultyEasy)
	q.Join(ctx, "u2", "bob", model.DifficultyEasy)

	if len(store.saved) != 1 || store.saved[0] != "u1" {
		t.Errorf("expected only the waiting player mirrored, got %v", store.saved)
	}
	if len(store.removed) != 1 || store.removed[0] != "u1" {
		t.Errorf("expected mirrored entry removed on pairing, got %v", store.removed)
	}
}
