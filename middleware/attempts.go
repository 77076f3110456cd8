package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts failed attempts per subject in fixed Redis windows.
// A zero max disables it.
type AttemptLimiter struct {
	rdb    *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewAttemptLimiter(rdb *redis.Client, prefix string, max int, window time.Duration) *AttemptLimiter {
	if prefix == "" {
		prefix = "food_share:attempts:"
	}
	return &AttemptLimiter{rdb: rdb, prefix: prefix, max: max, window: window}
}

func (l *AttemptLimiter) key(scope, subject string) string {
	return l.prefix + scope + ":" + strings.ToLower(strings.TrimSpace(subject))
}

// Blocked reports whether subject has used up its attempts for scope.
func (l *AttemptLimiter) Blocked(ctx context.Context, scope, subject string) (bool, error) {
	if l == nil || l.max <= 0 {
		return false, nil
	}
	n, err := l.rdb.Get(ctx, l.key(scope, subject)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read attempts: %w", err)
	}
	return n >= l.max, nil
}

// Fail records one failed attempt. The window starts at the first failure.
func (l *AttemptLimiter) Fail(ctx context.Context, scope, subject string) error {
	if l == nil || l.max <= 0 {
		return nil
	}
	key := l.key(scope, subject)
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("count attempt: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("expire attempts: %w", err)
		}
	}
	return nil
}

// Reset forgets the failures of subject.
func (l *AttemptLimiter) Reset(ctx context.Context, scope, subject string) error {
	if l == nil || l.max <= 0 {
		return nil
	}
	return l.rdb.Del(ctx, l.key(scope, subject)).Err()
}
