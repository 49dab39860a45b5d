package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/barekit/adscope/pkg/keyword"
	"github.com/redis/go-redis/v9"
)

// RedisArchive implements Archive using Redis.
type RedisArchive struct {
	client *redis.Client
}

// New creates a new RedisArchive.
func New(client *redis.Client) *RedisArchive {
	return &RedisArchive{client: client}
}

// Append saves a keyword snapshot to Redis.
// Snapshots are stored as a JSON list under "keyword:{term}".
func (a *RedisArchive) Append(ctx context.Context, rec keyword.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	key := fmt.Sprintf("keyword:%s", rec.Term)
	return a.client.RPush(ctx, key, b).Err()
}

// History loads the snapshots for a term from Redis.
func (a *RedisArchive) History(ctx context.Context, term string) ([]keyword.Record, error) {
	key := fmt.Sprintf("keyword:%s", term)

	result, err := a.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]keyword.Record, len(result))
	for i, item := range result {
		var rec keyword.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record at index %d: %w", i, err)
		}
		records[i] = rec
	}

	return records, nil
}
