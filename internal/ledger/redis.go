package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	winsKey  = "armada:wins"
	namesKey = "armada:names"
)

// Redis is a ledger backend on a Redis sorted set, keyed by player id
// with a separate name hash.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis instance at url and verifies the
// connection before returning.
func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// NewRedisWithClient wraps an existing client. Used by tests.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

var _ Ledger = (*Redis)(nil)

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// RecordWin increments the player's score and refreshes their name.
func (r *Redis) RecordWin(ctx context.Context, playerID uuid.UUID, name string) error {
	pipe := r.client.TxPipeline()
	pipe.ZIncrBy(ctx, winsKey, 1, playerID.String())
	pipe.HSet(ctx, namesKey, playerID.String(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record win for %s: %w", playerID, err)
	}
	return nil
}

// Snapshot reads all entries. Redis orders the sorted set by score; ties
// are re-sorted by name to match the memory backend.
func (r *Redis) Snapshot(ctx context.Context) ([]Entry, error) {
	scores, err := r.client.ZRevRangeWithScores(ctx, winsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read wins: %w", err)
	}
	if len(scores) == 0 {
		return []Entry{}, nil
	}

	names, err := r.client.HGetAll(ctx, namesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}

	entries := make([]Entry, 0, len(scores))
	for _, z := range scores {
		idStr, _ := z.Member.(string)
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			PlayerID: id,
			Name:     names[idStr],
			Wins:     int(z.Score),
		})
	}
	sortEntries(entries)
	return entries, nil
}
