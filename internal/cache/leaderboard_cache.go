package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "game:lb"

// LeaderboardCache mirrors team scores into a Redis ZSET so the live feed
// can read top-N without touching MongoDB.
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, teamID string, score int) error
	GetTop(ctx context.Context, limit int) ([]Entry, error)
	Remove(ctx context.Context, teamID string) error
}

// Entry is a single ZSET row.
type Entry struct {
	TeamID string `json:"teamId"`
	Score  int    `json:"score"`
	Rank   int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, teamID string, score int) error {
	return c.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(score),
		Member: teamID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]Entry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(results))
	for i, z := range results {
		entries[i] = Entry{
			TeamID: z.Member.(string),
			Score:  int(z.Score),
			Rank:   i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) Remove(ctx context.Context, teamID string) error {
	return c.client.ZRem(ctx, leaderboardKey, teamID).Err()
}
