package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/kunalsaini/authline-backend/pkg/redis"
)

// challengeCache is the slice of the Redis client the store needs. Satisfied
// by *redis.Client.
type challengeCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	OtpKey(phone string) string
}

// RedisStore backs the challenge store with Redis so codes survive restarts
// and are shared across instances. Expiry is delegated to the key TTL.
type RedisStore struct {
	cache challengeCache
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{cache: client}
}

func (s *RedisStore) Put(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := s.cache.Set(ctx, s.cache.OtpKey(phone), code, ttl); err != nil {
		return fmt.Errorf("storing otp challenge: %w", err)
	}
	return nil
}

func (s *RedisStore) Verify(ctx context.Context, phone, code string) (bool, error) {
	key := s.cache.OtpKey(phone)
	stored, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("reading otp challenge: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}
	if err := s.cache.Del(ctx, key); err != nil {
		return false, fmt.Errorf("consuming otp challenge: %w", err)
	}
	return true, nil
}

func (s *RedisStore) Close() error {
	return nil
}
