package adminauth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RequestLimiter enforces the minimum resend interval per normalized
// email. Allow must be atomic with respect to concurrent requests for the
// same key: two simultaneous calls may not both pass.
type RequestLimiter interface {
	Allow(ctx context.Context, key string, interval time.Duration) (bool, error)
}

// MemoryLimiter is the process-local default. Its state is non-durable,
// which is acceptable: the interval is abuse mitigation, not a security
// boundary.
type MemoryLimiter struct {
	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
}

// NewMemoryLimiter builds a limiter; a nil clock uses wall time.
func NewMemoryLimiter(now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		last: make(map[string]time.Time),
		now:  now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string, interval time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.last[key]; ok && now.Sub(last) < interval {
		return false, nil
	}
	l.last[key] = now
	return true, nil
}

// RedisLimiter shares the interval check across processes. SET NX with a
// TTL is the atomic check-and-set.
type RedisLimiter struct {
	Client *redis.Client
}

// NewRedisLimiter builds a limiter over an existing client.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{Client: client}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, interval time.Duration) (bool, error) {
	ok, err := l.Client.SetNX(ctx, "adminauth:resend:"+key, "1", interval).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

var (
	_ RequestLimiter = (*MemoryLimiter)(nil)
	_ RequestLimiter = (*RedisLimiter)(nil)
)
