package referer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const SESSION_KEY = "test-session-key"

var forbidden = []string{
	"https://example.com/password/change",
	"https://example.com/password/request",
}

func TestCaptureStoresFirstReferer(t *testing.T) {
	store := NewFakeStore()
	guard := NewGuard(store, forbidden)
	ctx := context.Background()

	err := guard.Capture(ctx, SESSION_KEY, "https://example.com/account")
	require.NoError(t, err)

	target, err := guard.Consume(ctx, SESSION_KEY)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/account", target)
}

func TestCaptureIsIdempotentWithinFlow(t *testing.T) {
	store := NewFakeStore()
	guard := NewGuard(store, forbidden)
	ctx := context.Background()

	require.NoError(t, guard.Capture(ctx, SESSION_KEY, "https://example.com/first"))
	require.NoError(t, guard.Capture(ctx, SESSION_KEY, "https://example.com/second"))

	target, err := guard.Consume(ctx, SESSION_KEY)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/first", target)
}

func TestCaptureNeverStoresFlowEntryURL(t *testing.T) {
	for _, entryURL := range forbidden {
		t.Run(entryURL, func(t *testing.T) {
			store := NewFakeStore()
			guard := NewGuard(store, forbidden)
			ctx := context.Background()

			require.NoError(t, guard.Capture(ctx, SESSION_KEY, entryURL))

			target, err := guard.Consume(ctx, SESSION_KEY)
			require.NoError(t, err)
			require.Equal(t, DefaultTarget, target)
		})
	}
}

func TestCaptureWithoutRefererStoresDefault(t *testing.T) {
	store := NewFakeStore()
	guard := NewGuard(store, forbidden)
	ctx := context.Background()

	require.NoError(t, guard.Capture(ctx, SESSION_KEY, ""))

	target, err := guard.Consume(ctx, SESSION_KEY)
	require.NoError(t, err)
	require.Equal(t, DefaultTarget, target)
}

func TestConsumeWithoutCaptureReturnsDefault(t *testing.T) {
	guard := NewGuard(NewFakeStore(), forbidden)

	target, err := guard.Consume(context.Background(), SESSION_KEY)
	require.NoError(t, err)
	require.Equal(t, DefaultTarget, target)
}

func TestConsumeRemovesValue(t *testing.T) {
	store := NewFakeStore()
	guard := NewGuard(store, forbidden)
	ctx := context.Background()

	require.NoError(t, guard.Capture(ctx, SESSION_KEY, "https://example.com/account"))

	first, err := guard.Consume(ctx, SESSION_KEY)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/account", first)

	second, err := guard.Consume(ctx, SESSION_KEY)
	require.NoError(t, err)
	require.Equal(t, DefaultTarget, second)
}
