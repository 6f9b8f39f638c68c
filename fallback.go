package fallbackcache

import (
	"context"
	"errors"
)

// errMiss is what the recovery handed to the fallback store returns. It never
// leaves this package: a miss surfaces as the primary's or the secondary's
// own outcome.
var errMiss = errors.New("fallbackcache: no fallback value")

// FallbackCache prefers freshly computed values and falls back to the last
// value that was computed successfully when the computation fails.
//
// On success the fallback entry is replaced: through the store's Set when it
// has one, otherwise by a delete followed by the store's own get-with-loader,
// so a present entry cannot short-circuit the write. On failure the stored
// value is served if there is one.
//
// FallbackCache adds no locking; concurrency guarantees are the store's.
type FallbackCache[V any] struct {
	fallback Store[V]
	hooks    Hooks
}

var (
	_ Cache[struct{}] = (*FallbackCache[struct{}])(nil)
	_ Store[struct{}] = (*FallbackCache[struct{}])(nil)
)

// Get runs primary and returns its value, refreshing the fallback entry.
// If primary fails, the stored value is returned; with nothing stored the
// primary's error is returned unchanged.
func (c *FallbackCache[V]) Get(ctx context.Context, key string, primary Loader[V]) (V, error) {
	var zero V
	if key == "" {
		return zero, ErrEmptyKey
	}
	v, err := primary(ctx)
	if err == nil {
		return c.refresh(ctx, key, v)
	}
	c.hooks.PrimaryFailed(key, err)

	stored, ok, serr := c.lookup(ctx, key)
	if serr != nil {
		return zero, serr
	}
	if !ok {
		c.hooks.FallbackMiss(key, false)
		return zero, err
	}
	c.hooks.FallbackHit(key)
	return stored, nil
}

// GetWithSecondary is Get with a last resort: when primary fails and nothing
// is stored, secondary decides the outcome and primary's error is dropped.
// Values produced by secondary are not stored.
func (c *FallbackCache[V]) GetWithSecondary(ctx context.Context, key string, primary, secondary Loader[V]) (V, error) {
	var zero V
	if key == "" {
		return zero, ErrEmptyKey
	}
	v, err := primary(ctx)
	if err == nil {
		return c.refresh(ctx, key, v)
	}
	c.hooks.PrimaryFailed(key, err)

	stored, ok, serr := c.lookup(ctx, key)
	if serr != nil {
		return zero, serr
	}
	if !ok {
		c.hooks.FallbackMiss(key, true)
		return secondary(ctx)
	}
	c.hooks.FallbackHit(key)
	return stored, nil
}

// Delete drops the fallback entry for key.
func (c *FallbackCache[V]) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	return c.fallback.Delete(ctx, key)
}

// writer is a Store that can replace an entry outright. A refresh goes
// through Set when the store has one, since the delete-then-get path can be
// answered by another caller's in-flight load on a coalescing store.
type writer[V any] interface {
	Set(ctx context.Context, key string, v V) error
}

func (c *FallbackCache[V]) refresh(ctx context.Context, key string, v V) (V, error) {
	var zero V
	if w, ok := c.fallback.(writer[V]); ok {
		if err := w.Set(ctx, key, v); err != nil {
			c.hooks.RefreshError(key, err)
			return zero, err
		}
		return v, nil
	}
	if _, err := c.fallback.Delete(ctx, key); err != nil {
		c.hooks.RefreshError(key, err)
		return zero, err
	}
	if _, err := c.fallback.Get(ctx, key, func(context.Context) (V, error) { return v, nil }); err != nil {
		c.hooks.RefreshError(key, err)
		return zero, err
	}
	return v, nil
}

// lookup reads the stored value without letting the store populate anything.
// ok=false with a nil error is a miss; any other error is the store's.
func (c *FallbackCache[V]) lookup(ctx context.Context, key string) (V, bool, error) {
	var zero V
	v, err := c.fallback.Get(ctx, key, func(context.Context) (V, error) { return zero, errMiss })
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, errMiss):
		return zero, false, nil
	default:
		return zero, false, err
	}
}
