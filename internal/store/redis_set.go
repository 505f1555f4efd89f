package store

import (
	"context"
)

// RedisVisitedSet is a VisitedSet backed by a Redis set. SADD is atomic, so
// exactly one concurrent caller observes a URL as newly added.
type RedisVisitedSet struct {
	client RedisClient
	key    string
}

// NewRedisVisitedSet returns the Redis-backed VisitedSet under prefix.
func NewRedisVisitedSet(client RedisClient, prefix string) *RedisVisitedSet {
	return &RedisVisitedSet{client: client, key: prefix + visitedKey}
}

// AddIfNotPresent adds url and reports whether it was newly added.
func (s *RedisVisitedSet) AddIfNotPresent(ctx context.Context, url string) (bool, error) {
	added, err := s.client.SAdd(ctx, s.key, url).Result()
	if err != nil {
		return false, storageError("sadd", s.key, err)
	}
	return added > 0, nil
}

// IsPresent reports whether url is in the set.
func (s *RedisVisitedSet) IsPresent(ctx context.Context, url string) (bool, error) {
	present, err := s.client.SIsMember(ctx, s.key, url).Result()
	if err != nil {
		return false, storageError("sismember", s.key, err)
	}
	return present, nil
}

// Clear deletes the set.
func (s *RedisVisitedSet) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return storageError("del", s.key, err)
	}
	return nil
}
