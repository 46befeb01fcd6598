package tokenregistry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"givepact/internal/guard"
	"givepact/pkg/domain"
	"givepact/pkg/platform/events"
	eventsmemory "givepact/pkg/platform/events/store/memory"
	"givepact/pkg/requestcontext"
)

const owner = domain.Address("owner-1")

type recordingPublisher struct {
	store *eventsmemory.InMemoryStore
}

func (p *recordingPublisher) Emit(ctx context.Context, event events.Event) error {
	return p.store.Append(ctx, event)
}

func newService(t *testing.T) (*Service, *eventsmemory.InMemoryStore) {
	t.Helper()
	store := eventsmemory.NewInMemoryStore()
	svc := New(NewInMemoryStore(), guard.NewSingleOwner(owner),
		WithPublisher(&recordingPublisher{store: store}))
	return svc, store
}

func asOwner(ctx context.Context) context.Context {
	return requestcontext.WithCaller(ctx, owner)
}

func TestSetSupportRequiresPrivilege(t *testing.T) {
	svc, _ := newService(t)
	ctx := requestcontext.WithCaller(context.Background(), "donor-a")

	err := svc.SetSupport(ctx, "token-x", true)
	require.ErrorIs(t, err, guard.ErrNotAuthorized)
}

func TestSetSupportRejectsZeroToken(t *testing.T) {
	svc, _ := newService(t)

	err := svc.SetSupport(asOwner(context.Background()), domain.ZeroAddress, true)
	require.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestSetSupportToggles(t *testing.T) {
	svc, eventStore := newService(t)
	ctx := asOwner(context.Background())

	require.NoError(t, svc.SetSupport(ctx, "token-x", true))
	supported, err := svc.IsSupported(ctx, "token-x")
	require.NoError(t, err)
	assert.True(t, supported)

	require.NoError(t, svc.SetSupport(ctx, "token-x", false))
	supported, err = svc.IsSupported(ctx, "token-x")
	require.NoError(t, err)
	assert.False(t, supported)

	emitted, err := eventStore.ListByType(ctx, events.TypeTokenSupportChanged)
	require.NoError(t, err)
	require.Len(t, emitted, 2)
	assert.True(t, emitted[0].Supported)
	assert.False(t, emitted[1].Supported)
}

func TestIsSupportedUnknownToken(t *testing.T) {
	svc, _ := newService(t)

	supported, err := svc.IsSupported(context.Background(), "token-unknown")
	require.NoError(t, err)
	assert.False(t, supported)

	supported, err = svc.IsSupported(context.Background(), domain.ZeroAddress)
	require.NoError(t, err)
	assert.False(t, supported)
}

func TestListSupported(t *testing.T) {
	svc, _ := newService(t)
	ctx := asOwner(context.Background())

	require.NoError(t, svc.SetSupport(ctx, "token-b", true))
	require.NoError(t, svc.SetSupport(ctx, "token-a", true))
	require.NoError(t, svc.SetSupport(ctx, "token-c", false))

	tokens, err := svc.ListSupported(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{"token-a", "token-b"}, tokens)
}
