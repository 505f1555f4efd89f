package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key suffixes, appended to the configured prefix.
const (
	frontierKey = "queue:frontier"
	fetchedKey  = "queue:fetched"
	visitedKey  = "set:visited"
	statusKey   = "status:"
)

// RedisClient is the subset of *redis.Client the Redis backings use.
type RedisClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	RPop(ctx context.Context, key string) *redis.StringCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisOptions configures the shared Redis connection pool.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewRedisClient opens a Redis client that applies context deadlines to commands.
// Cancelling a context without a deadline does not interrupt a pending BRPOP, so a
// stopping worker waits at most the queue timeout.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:                  opts.Addr,
		Password:              opts.Password,
		DB:                    opts.DB,
		PoolSize:              opts.PoolSize,
		ContextTimeoutEnabled: true,
	})
}
