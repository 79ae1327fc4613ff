package referer

import (
	"context"
	"strings"
	e "userkit/internal/core/domain/errors"
)

// DefaultTarget is returned whenever no referer was captured for a flow.
const DefaultTarget = "/"

// Store is a session-scoped key-value store holding the pending redirect
// target of a password flow.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	// Remove deletes the value and returns what was stored.
	Remove(ctx context.Context, key string) (value string, ok bool, err error)
}

// Guard tracks where to send the user after a password flow completes.
// The first referer seen for a flow wins; the flow's own entry URLs are
// never stored, so a completed flow cannot redirect back into itself.
type Guard struct {
	store     Store
	forbidden []string
}

func NewGuard(store Store, forbiddenTargets []string) *Guard {
	if store == nil {
		panic(e.NewNilArgumentError("store"))
	}
	return &Guard{store: store, forbidden: forbiddenTargets}
}

// Capture stores the referer for the flow identified by key, unless a
// target is already pending. An absent or self-referential referer is
// replaced with the default target.
func (g *Guard) Capture(ctx context.Context, key string, currentReferer string) error {
	_, ok, err := g.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	target := DefaultTarget
	if currentReferer != "" && !g.isForbidden(currentReferer) {
		target = currentReferer
	}
	return g.store.Set(ctx, key, target)
}

// Consume removes and returns the pending target. A second call for the
// same key returns the default target again since the value is gone.
func (g *Guard) Consume(ctx context.Context, key string) (string, error) {
	value, ok, err := g.store.Remove(ctx, key)
	if err != nil {
		return DefaultTarget, err
	}
	if !ok {
		return DefaultTarget, nil
	}
	return value, nil
}

// Matching is by prefix so that redemption URLs, which carry the user
// identifier and the secret as path parameters, are covered too.
func (g *Guard) isForbidden(target string) bool {
	for _, f := range g.forbidden {
		if strings.HasPrefix(target, f) {
			return true
		}
	}
	return false
}
