package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/leaderboard"
	"github.com/zv-rewards/zv-rewards-hub/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE IMPLEMENTATION
// Sorted set по баллам: ZADD на каждое изменение, ZREVRANGE для топа.
// При расхождении с EmployeeStore кеш перестраивается целиком (Rebuild).
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache implements leaderboard.Cache using a Redis sorted set.
// A circuit breaker short-circuits calls while Redis is down, так что
// каждый запрос рейтинга не ждёт таймаута соединения.
type LeaderboardCache struct {
	client  *Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(client *Client) *LeaderboardCache {
	return &LeaderboardCache{
		client:  client,
		breaker: circuitbreaker.CacheBreaker(nil),
	}
}

// key returns the sorted set key.
func (l *LeaderboardCache) key() string {
	return l.client.Key("leaderboard", "points")
}

// UpdateScore updates an employee's points in the cache.
func (l *LeaderboardCache) UpdateScore(ctx context.Context, employeeID string, points int) error {
	return l.breaker.Execute(ctx, func(ctx context.Context) error {
		err := l.client.Raw().ZAdd(ctx, l.key(), redis.Z{
			Score:  float64(points),
			Member: employeeID,
		}).Err()
		if err != nil {
			return fmt.Errorf("leaderboard_cache: failed to update score: %w", err)
		}
		return nil
	})
}

// Remove removes an employee from the cache.
func (l *LeaderboardCache) Remove(ctx context.Context, employeeID string) error {
	return l.breaker.Execute(ctx, func(ctx context.Context) error {
		if err := l.client.Raw().ZRem(ctx, l.key(), employeeID).Err(); err != nil {
			return fmt.Errorf("leaderboard_cache: failed to remove member: %w", err)
		}
		return nil
	})
}

// Top returns the top-N employees by points, descending.
func (l *LeaderboardCache) Top(ctx context.Context, n int) ([]leaderboard.ScoredID, error) {
	if n <= 0 {
		return nil, nil
	}

	var members []redis.Z
	err := l.breaker.Execute(ctx, func(ctx context.Context) error {
		var zErr error
		members, zErr = l.client.Raw().ZRevRangeWithScores(ctx, l.key(), 0, int64(n-1)).Result()
		return zErr
	})
	if err != nil {
		return nil, fmt.Errorf("leaderboard_cache: failed to read top: %w", err)
	}

	scored := make([]leaderboard.ScoredID, 0, len(members))
	for _, member := range members {
		id, ok := member.Member.(string)
		if !ok {
			continue
		}
		scored = append(scored, leaderboard.ScoredID{
			EmployeeID: id,
			Points:     int(member.Score),
		})
	}
	return scored, nil
}

// Rank returns the 1-based position of an employee, 0 if absent.
func (l *LeaderboardCache) Rank(ctx context.Context, employeeID string) (int, error) {
	var rank int64
	found := false
	err := l.breaker.Execute(ctx, func(ctx context.Context) error {
		// ZRevRank is 0-based (0 = highest score). Отсутствие участника -
		// не сбой кеша, breaker его не считает.
		result, zErr := l.client.Raw().ZRevRank(ctx, l.key(), employeeID).Result()
		if zErr != nil {
			if zErr == redis.Nil {
				return nil
			}
			return zErr
		}
		rank = result
		found = true
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("leaderboard_cache: failed to read rank: %w", err)
	}
	if !found {
		return 0, nil
	}
	return int(rank) + 1, nil
}

// Rebuild replaces the cache contents wholesale inside a transaction.
func (l *LeaderboardCache) Rebuild(ctx context.Context, scores map[string]int) error {
	members := make([]redis.Z, 0, len(scores))
	for id, points := range scores {
		members = append(members, redis.Z{
			Score:  float64(points),
			Member: id,
		})
	}

	return l.breaker.Execute(ctx, func(ctx context.Context) error {
		pipe := l.client.Raw().TxPipeline()
		pipe.Del(ctx, l.key())
		if len(members) > 0 {
			pipe.ZAdd(ctx, l.key(), members...)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("leaderboard_cache: failed to rebuild: %w", err)
		}
		return nil
	})
}
