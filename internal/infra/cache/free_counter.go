package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// FreeDemoCounter counts anonymous free-demo creations per visitor per
// calendar month. Keys expire after ~40 days so stale visitors clean
// themselves up; the month embedded in the key is what actually scopes the
// count.
type FreeDemoCounter struct {
	Client *redis.Client
}

func NewFreeDemoCounter(client *redis.Client) *FreeDemoCounter {
	return &FreeDemoCounter{Client: client}
}

// Take increments the visitor's counter for the month containing `now` and
// returns the new total. Implements usecase.MonthlyCounter.
func (c *FreeDemoCounter) Take(ctx context.Context, key string, now time.Time) (int64, error) {
	redisKey := fmt.Sprintf("freedemo:%s:%s", key, now.UTC().Format("2006-01"))

	count, err := c.Client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment free demo counter: %w", err)
	}
	if count == 1 {
		c.Client.Expire(ctx, redisKey, 40*24*time.Hour)
	}
	return count, nil
}
