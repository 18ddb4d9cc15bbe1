package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix      = "lock:resource:"
	defaultTTL     = 15 * time.Second
	defaultRetries = 3
	retryBackoff   = 150 * time.Millisecond
)

// RedisGuard is the cross-process Guard, for deployments running more
// than one API instance against a shared database. Each key is taken with
// SET NX under a TTL so a crashed holder cannot wedge a resource forever.
type RedisGuard struct {
	client  *redis.Client
	ttl     time.Duration
	retries int
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisGuard{client: client, ttl: ttl, retries: defaultRetries}
}

func (g *RedisGuard) Do(ctx context.Context, keys []string, fn func() error) error {
	keys = dedupeSorted(keys)
	token := uuid.NewString()

	acquired := make([]string, 0, len(keys))
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			g.releaseKey(context.WithoutCancel(ctx), acquired[i], token)
		}
	}

	for _, key := range keys {
		if err := g.acquireKey(ctx, key, token); err != nil {
			release()
			return err
		}
		acquired = append(acquired, key)
	}
	defer release()

	return fn()
}

func (g *RedisGuard) acquireKey(ctx context.Context, key, token string) error {
	for attempt := 0; ; attempt++ {
		ok, err := g.client.SetNX(ctx, keyPrefix+key, token, g.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if attempt >= g.retries {
			return ErrNotAcquired
		}
		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// releaseKey deletes the key only if we still hold it; a lock that expired
// and was re-taken by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (g *RedisGuard) releaseKey(ctx context.Context, key, token string) {
	_ = releaseScript.Run(ctx, g.client, []string{keyPrefix + key}, token).Err()
}
