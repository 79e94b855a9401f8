package scans

import (
	"context"
	"errors"
	"time"

	"admitly/internal/shared/constants"
	"admitly/pkg/cache"
)

// IdempotencyGuard remembers the outcome of an admission attempt keyed by
// the client-supplied local scan id, so a retried network submission of the
// same physical scan returns the original result instead of consuming a
// second admission.
type IdempotencyGuard interface {
	Lookup(ctx context.Context, key string) (*ScanAttemptResult, error)
	Store(ctx context.Context, key string, result *ScanAttemptResult) error
}

type redisIdempotencyGuard struct {
	cache cache.Service
	ttl   time.Duration
}

// NewIdempotencyGuard creates a Redis-backed idempotency guard. The TTL
// bounds how long a retried submission is recognized; it only needs to
// outlive realistic retry windows, not the event.
func NewIdempotencyGuard(cacheService cache.Service, ttl time.Duration) IdempotencyGuard {
	if ttl <= 0 {
		ttl = constants.TTL_SCAN_IDEMPOTENCY
	}
	return &redisIdempotencyGuard{cache: cacheService, ttl: ttl}
}

func (g *redisIdempotencyGuard) Lookup(ctx context.Context, key string) (*ScanAttemptResult, error) {
	var result ScanAttemptResult
	err := g.cache.Get(ctx, g.key(key), &result)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (g *redisIdempotencyGuard) Store(ctx context.Context, key string, result *ScanAttemptResult) error {
	// First writer wins: a concurrent retry that lost the race at the
	// storage boundary must not overwrite the recorded outcome.
	_, err := g.cache.SetNX(ctx, g.key(key), result, g.ttl)
	return err
}

func (g *redisIdempotencyGuard) key(key string) string {
	return constants.BuildScanIdempotencyKey(key)
}
