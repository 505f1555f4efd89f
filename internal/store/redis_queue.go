package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"depth-crawler/internal/models"
)

// RedisQueue is a FIFO list in Redis: LPUSH at the head, BRPOP from the tail.
// Items are stored as flat JSON records.
type RedisQueue[T any] struct {
	client RedisClient
	key    string
}

// NewRedisFrontier returns the Redis-backed FrontierQueue under prefix.
func NewRedisFrontier(client RedisClient, prefix string) *RedisQueue[models.Link] {
	return &RedisQueue[models.Link]{client: client, key: prefix + frontierKey}
}

// NewRedisFetched returns the Redis-backed FetchedQueue under prefix.
func NewRedisFetched(client RedisClient, prefix string) *RedisQueue[models.Page] {
	return &RedisQueue[models.Page]{client: client, key: prefix + fetchedKey}
}

// Key returns the Redis list key.
func (q *RedisQueue[T]) Key() string {
	return q.key
}

// Push encodes item and appends it to the list.
func (q *RedisQueue[T]) Push(ctx context.Context, item T) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", q.key, err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return storageError("lpush", q.key, err)
	}
	return nil
}

// Pop removes the oldest item, blocking up to timeout. Sub-second timeouts are
// rounded by Redis; a non-positive timeout does not block at all.
func (q *RedisQueue[T]) Pop(ctx context.Context, timeout time.Duration) (T, bool, error) {
	var zero T
	var (
		raw string
		err error
	)
	if timeout <= 0 {
		raw, err = q.client.RPop(ctx, q.key).Result()
	} else {
		var reply []string
		reply, err = q.client.BRPop(ctx, timeout, q.key).Result()
		if err == nil {
			if len(reply) < 2 {
				return zero, false, storageError("brpop", q.key, fmt.Errorf("unexpected reply length %d", len(reply)))
			}
			raw = reply[1]
		}
	}
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		if ctx.Err() != nil {
			return zero, false, ctx.Err()
		}
		return zero, false, storageError("brpop", q.key, err)
	}

	var item T
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return zero, false, fmt.Errorf("decode %s record: %w", q.key, err)
	}
	return item, true, nil
}

// Clear deletes the list.
func (q *RedisQueue[T]) Clear(ctx context.Context) error {
	if err := q.client.Del(ctx, q.key).Err(); err != nil {
		return storageError("del", q.key, err)
	}
	return nil
}
