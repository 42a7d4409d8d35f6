package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

const (
	matchKeyPrefix = "arena:match:"
	queueKeyPrefix = "arena:queue:"
)

// RedisRepo mirrors live match and queue state into Redis. The in-memory
// structures stay authoritative; this mirror exists for observability and
// orphan detection after a restart.
type RedisRepo struct {
	client *redis.Client
}

func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client}
}

func matchKey(matchID string) string {
	return matchKeyPrefix + matchID
}

// SaveMatch stores the full match document as JSON under arena:match:<id>.
func (r *RedisRepo) SaveMatch(ctx context.Context, m *model.Match) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal match %s: %w", m.MatchID, err)
	}
	if err := r.client.Set(ctx, matchKey(m.MatchID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set match %s: %w", m.MatchID, err)
	}
	return nil
}

// GetMatch loads a mirrored match document. Returns redis.Nil via the
// wrapped error when the key does not exist.
func (r *RedisRepo) GetMatch(ctx context.Context, matchID string) (*model.Match, error) {
	data, err := r.client.Get(ctx, matchKey(matchID)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("redis get match %s: %w", matchID, err)
	}
	var m model.Match
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal match %s: %w", matchID, err)
	}
	return &m, nil
}

func (r *RedisRepo) DeleteMatch(ctx context.Context, matchID string) error {
	return r.client.Del(ctx, matchKey(matchID)).Err()
}

// ActiveMatchIDs lists every mirrored match id. Used by the reaper to find
// orphaned mirrors that no longer have an in-memory actor.
func (r *RedisRepo) ActiveMatchIDs(ctx context.Context) ([]string, error) {
	keys, err := r.client.Keys(ctx, matchKeyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("redis keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k[len(matchKeyPrefix):])
	}
	return ids, nil
}

// SaveQueueEntry mirrors a waiting queue entry with a TTL so stale entries
// age out even if the cleanup path is missed.
func (r *RedisRepo) SaveQueueEntry(ctx context.Context, e model.QueueEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal queue entry %s: %w", e.UserID, err)
	}
	key := queueKeyPrefix + e.UserID
	if err := r.client.Set(ctx, key, data, 30*time.Minute).Err(); err != nil {
		return fmt.Errorf("redis set queue entry %s: %w", e.UserID, err)
	}
	return nil
}

func (r *RedisRepo) RemoveQueueEntry(ctx context.Context, userID string) error {
	return r.client.Del(ctx, queueKeyPrefix+userID).Err()
}
