// Package idempotency guards order submission against duplicate delivery.
// Buyers retrying a timed-out submit send the same Idempotency-Key header;
// the guard admits the first claim of a key and rejects the rest until the
// key expires.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "order-idem:"

// Guard claims idempotency keys on behalf of the order flow.
type Guard interface {
	// Claim attempts to claim the key. It returns false when the key was
	// already claimed by an earlier submission.
	Claim(ctx context.Context, key string) (bool, error)

	// Release frees a claimed key so the buyer can retry after a failed
	// placement.
	Release(ctx context.Context, key string) error
}

// Noop is a Guard that admits everything. Used when Redis is disabled.
type Noop struct{}

// Claim always succeeds.
func (Noop) Claim(context.Context, string) (bool, error) { return true, nil }

// Release does nothing.
func (Noop) Release(context.Context, string) error { return nil }

// redisGuard implements Guard with Redis SETNX and a TTL.
type redisGuard struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisGuard creates a Redis-backed idempotency guard and verifies
// connectivity.
func NewRedisGuard(ctx context.Context, address string, ttl time.Duration, logger zerolog.Logger) (Guard, error) {
	client := redis.NewClient(&redis.Options{Addr: address})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", address, err)
	}

	logger.Info().
		Str("address", address).
		Dur("ttl", ttl).
		Msg("redis idempotency guard initialised")

	return &redisGuard{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "idempotency-guard").Logger(),
	}, nil
}

// Claim attempts to claim the key with SETNX.
func (g *redisGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		g.logger.Error().Err(err).Str("key", key).Msg("failed to claim idempotency key")
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}

	if !ok {
		g.logger.Debug().Str("key", key).Msg("idempotency key already claimed")
	}

	return ok, nil
}

// Release frees a claimed key.
func (g *redisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		g.logger.Error().Err(err).Str("key", key).Msg("failed to release idempotency key")
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
