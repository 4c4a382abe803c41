package codes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore defines a public type used by authflow APIs.
//
// RedisStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// prefix namespaces one purpose (e.g. "afv" for registration verification,
// "afr" for password reset); distinct purposes must use distinct prefixes.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(subject string) string {
	return s.prefix + ":" + subject
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Set(ctx context.Context, key string, code int) error {
	if err := s.redis.Set(ctx, s.key(key), strconv.Itoa(code), s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Get(ctx context.Context, key string) (int, bool, error) {
	raw, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	code, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: corrupt code entry", ErrUnavailable)
	}

	return code, true, nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// The compare-and-delete runs inside a WATCH transaction so a concurrent
// Set or Consume on the same key forces a retry instead of consuming a code
// that was just replaced.
func (s *RedisStore) Consume(ctx context.Context, key string, code int) error {
	const maxRetries = 4
	redisKey := s.key(key)

	for i := 0; i < maxRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, redisKey).Result()
			if err != nil {
				return err
			}

			stored, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%w: corrupt code entry", ErrUnavailable)
			}
			if stored != code {
				return ErrNoMatch
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, redisKey)
				return nil
			})
			return err
		}, redisKey)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return ErrNoMatch
			case errors.Is(err, ErrNoMatch), errors.Is(err, ErrUnavailable):
				return err
			default:
				return fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}

		return nil
	}

	return ErrNoMatch
}
