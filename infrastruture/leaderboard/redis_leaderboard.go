package leaderboard

import (
	"context"
	"fmt"

	"github.com/beka-birhanu/maze-craze/service/i"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the sorted set holding win counts.
const DefaultKey = "maze-craze:leaderboard"

// RedisLeaderboard keeps win counts in a Redis sorted set scored by wins.
type RedisLeaderboard struct {
	client *redis.Client
	key    string
}

var _ i.Leaderboard = &RedisLeaderboard{}

// NewRedisLeaderboard initializes a RedisLeaderboard stored under key, or under
// DefaultKey when key is empty.
func NewRedisLeaderboard(client *redis.Client, key string) *RedisLeaderboard {
	if key == "" {
		key = DefaultKey
	}
	return &RedisLeaderboard{
		client: client,
		key:    key,
	}
}

// RecordWin adds one win to player. ZINCRBY creates the member when missing.
func (l *RedisLeaderboard) RecordWin(ctx context.Context, player string) error {
	if err := l.client.ZIncrBy(ctx, l.key, 1, player).Err(); err != nil {
		return fmt.Errorf("recording win for %s: %w", player, err)
	}
	return nil
}

// Top returns up to n players with the most wins.
func (l *RedisLeaderboard) Top(ctx context.Context, n int64) ([]i.Standing, error) {
	if n <= 0 {
		return []i.Standing{}, nil
	}

	entries, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	standings := make([]i.Standing, 0, len(entries))
	for _, z := range entries {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		standings = append(standings, i.Standing{Player: member, Wins: int64(z.Score)})
	}
	return standings, nil
}

// Reset removes every recorded win.
func (l *RedisLeaderboard) Reset(ctx context.Context) error {
	return l.client.Del(ctx, l.key).Err()
}
