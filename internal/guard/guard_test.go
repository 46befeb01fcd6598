package guard

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"givepact/pkg/domain"
)

func TestGuardAllowsSequentialCalls(t *testing.T) {
	g := NewReentrancyGuard()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := g.Do(ctx, "donor-a", func(ctx context.Context) error { return nil })
		require.NoError(t, err)
	}
}

func TestGuardRejectsNestedEntry(t *testing.T) {
	g := NewReentrancyGuard()
	ctx := context.Background()

	var nested error
	err := g.Do(ctx, "donor-a", func(ctx context.Context) error {
		nested = g.Do(ctx, "donor-a", func(ctx context.Context) error {
			t.Fatal("nested guarded body must not run")
			return nil
		})
		return nil
	})
	require.NoError(t, err)
	require.ErrorIs(t, nested, ErrReentrantCall)
}

func TestGuardReleasesAfterFailure(t *testing.T) {
	g := NewReentrancyGuard()
	ctx := context.Background()

	wantErr := assert.AnError
	err := g.Do(ctx, "donor-a", func(ctx context.Context) error { return wantErr })
	require.ErrorIs(t, err, wantErr)

	// The slot must be free again.
	require.NoError(t, g.Do(ctx, "donor-a", func(ctx context.Context) error { return nil }))
}

func TestGuardIsPerCaller(t *testing.T) {
	g := NewReentrancyGuard()
	ctx := context.Background()

	inA := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = g.Do(ctx, "donor-a", func(ctx context.Context) error {
			close(inA)
			<-release
			return nil
		})
	}()

	<-inA
	// A different caller is not blocked by donor-a's in-flight operation.
	require.NoError(t, g.Do(ctx, "donor-b", func(ctx context.Context) error { return nil }))
	close(release)
	wg.Wait()
}

func TestSingleOwnerPolicy(t *testing.T) {
	p := NewSingleOwner("owner-1")
	ctx := context.Background()

	require.NoError(t, p.Authorize(ctx, "owner-1"))
	require.ErrorIs(t, p.Authorize(ctx, "donor-a"), ErrNotAuthorized)
	require.ErrorIs(t, p.Authorize(ctx, domain.ZeroAddress), ErrNotAuthorized)
}

func TestAllowlistPolicy(t *testing.T) {
	p := NewAllowlist("admin-1", "admin-2")
	ctx := context.Background()

	require.NoError(t, p.Authorize(ctx, "admin-1"))
	require.NoError(t, p.Authorize(ctx, "admin-2"))
	require.ErrorIs(t, p.Authorize(ctx, "donor-a"), ErrNotAuthorized)
	require.ErrorIs(t, p.Authorize(ctx, domain.ZeroAddress), ErrNotAuthorized)
}

func TestAllowlistIgnoresZeroMembers(t *testing.T) {
	p := NewAllowlist(domain.ZeroAddress)
	require.ErrorIs(t, p.Authorize(context.Background(), domain.ZeroAddress), ErrNotAuthorized)
}
