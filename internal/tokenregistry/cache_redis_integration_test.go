//go:build integration

package tokenregistry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"givepact/internal/tokenregistry"
	"givepact/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *tokenregistry.InMemoryStore
	store *tokenregistry.CachedStore
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.inner = tokenregistry.NewInMemoryStore()
	s.store = tokenregistry.NewCachedStore(s.inner, s.redis.Client, time.Minute)
}

func (s *CachedStoreSuite) TestWriteThrough() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "token-usd", true))

	// Inner store holds the truth.
	supported, err := s.inner.IsSupported(ctx, "token-usd")
	s.Require().NoError(err)
	s.True(supported)

	// Cached read agrees.
	supported, err = s.store.IsSupported(ctx, "token-usd")
	s.Require().NoError(err)
	s.True(supported)
}

func (s *CachedStoreSuite) TestReadThroughPopulatesCache() {
	ctx := context.Background()
	s.Require().NoError(s.inner.Set(ctx, "token-usd", true))

	// First read misses the cache and fills it.
	supported, err := s.store.IsSupported(ctx, "token-usd")
	s.Require().NoError(err)
	s.True(supported)

	// A direct change to the inner store is invisible until the entry
	// expires; the cache serves the stale flag.
	s.Require().NoError(s.inner.Set(ctx, "token-usd", false))
	supported, err = s.store.IsSupported(ctx, "token-usd")
	s.Require().NoError(err)
	s.True(supported)
}

func (s *CachedStoreSuite) TestToggleRefreshesCache() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "token-usd", true))
	s.Require().NoError(s.store.Set(ctx, "token-usd", false))

	supported, err := s.store.IsSupported(ctx, "token-usd")
	s.Require().NoError(err)
	s.False(supported)
}
