package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/wellvision/wellvision/internal/shared"
)

const defaultRedisPrefix = "seq"

// RedisStore keeps counters as plain integer keys and relies on INCR atomicity.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore constructs a store writing keys under "<prefix>:<name>".
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}

func (s *RedisStore) NextValue(ctx context.Context, name string) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	value, err := s.client.Incr(ctx, s.key(name)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: sequence incr: %v", shared.ErrStorageUnavailable, err)
	}
	return value, nil
}

func (s *RedisStore) Peek(ctx context.Context, name string) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	raw, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: sequence get: %v", shared.ErrStorageUnavailable, err)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: sequence %q holds %q", shared.ErrStorageUnavailable, name, raw)
	}
	return value + 1, nil
}
