package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_attempts:"

// LoginAttemptStore implements repository.LoginAttemptStore using Redis.
// Each identifier has one counter whose TTL is the attempt window.
type LoginAttemptStore struct {
	client *redis.Client
}

// NewLoginAttemptStore creates a new Redis-backed login attempt store.
func NewLoginAttemptStore(client *redis.Client) *LoginAttemptStore {
	return &LoginAttemptStore{client: client}
}

func attemptKey(identifier string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(identifier))
}

// Failures returns the failure count for identifier, 0 when none is recorded.
func (s *LoginAttemptStore) Failures(ctx context.Context, identifier string) (int, error) {
	n, err := s.client.Get(ctx, attemptKey(identifier)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get login attempts: %w", err)
	}
	return n, nil
}

// RecordFailure increments the counter. The first failure starts the window.
func (s *LoginAttemptStore) RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error) {
	key := attemptKey(identifier)

	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr login attempts: %w", err)
	}

	if n == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return int(n), fmt.Errorf("redis expire login attempts: %w", err)
		}
	}

	return int(n), nil
}

// Reset removes the counter for identifier.
func (s *LoginAttemptStore) Reset(ctx context.Context, identifier string) error {
	if err := s.client.Del(ctx, attemptKey(identifier)).Err(); err != nil {
		return fmt.Errorf("redis del login attempts: %w", err)
	}
	return nil
}
