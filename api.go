package fallbackcache

import (
	"context"
)

// Loader produces a value for a key. Primary, secondary and recovery
// operations all share this shape; ctx is handed through untouched.
type Loader[V any] func(ctx context.Context) (V, error)

// Store is the get-with-loader contract the fallback is kept in.
//
// Get returns the stored value without calling load when one is present.
// Otherwise it calls load; on success the value is stored and returned, on
// failure nothing is stored and load's error is returned as is.
//
// Delete removes any entry for key and reports whether one was present.
// It is idempotent.
//
// A Store that also has Set(ctx, key, v) error is refreshed through Set.
type Store[V any] interface {
	Get(ctx context.Context, key string, load Loader[V]) (V, error)
	Delete(ctx context.Context, key string) (bool, error)
}

// Cache is the API exposed by FallbackCache.
type Cache[V any] interface {
	Store[V]
	GetWithSecondary(ctx context.Context, key string, primary, secondary Loader[V]) (V, error)
}

// Options configure a FallbackCache. Only Fallback is required.
type Options[V any] struct {
	Fallback Store[V] // last-known-good values live here
	Hooks    Hooks    // if nil, NopHooks is used
}

func New[V any](opts Options[V]) (*FallbackCache[V], error) {
	if opts.Fallback == nil {
		return nil, ErrNilStore
	}
	return &FallbackCache[V]{
		fallback: opts.Fallback,
		hooks:    coalesce[Hooks](opts.Hooks, NopHooks{}),
	}, nil
}
