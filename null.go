package fallbackcache

import "context"

// NullStore keeps nothing: Get always runs the loader and Delete never finds
// an entry. A FallbackCache over a NullStore never serves a fallback.
type NullStore[V any] struct{}

var _ Store[struct{}] = NullStore[struct{}]{}

func (NullStore[V]) Get(ctx context.Context, _ string, load Loader[V]) (V, error) {
	return load(ctx)
}

func (NullStore[V]) Delete(context.Context, string) (bool, error) { return false, nil }
