package tokenregistry

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"givepact/pkg/domain"
)

// CachedStore is a read-through Redis cache in front of another Store. The
// donate hot path checks token support on every call; caching keeps that
// lookup off Postgres. Writes go to the inner store first and then refresh
// the cached flag, so a toggle is visible immediately on this instance and
// within the TTL everywhere else.
type CachedStore struct {
	inner Store
	redis *redis.Client
	ttl   time.Duration
}

const cacheKeyPrefix = "givepact:tokensupport:"

func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, redis: client, ttl: ttl}
}

func (s *CachedStore) Set(ctx context.Context, token domain.Address, supported bool) error {
	if err := s.inner.Set(ctx, token, supported); err != nil {
		return err
	}
	// Best effort: a failed cache write only means a stale read until expiry.
	s.redis.Set(ctx, cacheKeyPrefix+token.String(), boolValue(supported), s.ttl)
	return nil
}

func (s *CachedStore) IsSupported(ctx context.Context, token domain.Address) (bool, error) {
	key := cacheKeyPrefix + token.String()
	if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
		return cached == "1", nil
	}

	supported, err := s.inner.IsSupported(ctx, token)
	if err != nil {
		return false, err
	}
	s.redis.Set(ctx, key, boolValue(supported), s.ttl)
	return supported, nil
}

func (s *CachedStore) ListSupported(ctx context.Context) ([]domain.Address, error) {
	return s.inner.ListSupported(ctx)
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
