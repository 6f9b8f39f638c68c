// Package genstore keeps per-key generation counters.
//
// A ReadThrough store frames every entry with the generation observed before
// its loader ran. Deleting a key bumps the generation, so entries written by
// loads that raced with the delete fall behind it and are dropped on read.
package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where generations live.
// Use LocalGenStore (default) for in-process gens, or RedisGenStore when the
// provider is shared by several processes.
type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, storageKey string) (uint64, error)
	// Bump atomically moves the generation forward and returns the new value.
	Bump(ctx context.Context, storageKey string) (uint64, error)
	// Cleanup prunes generations untouched for longer than retention and
	// returns how many were removed (always 0 where not applicable).
	Cleanup(retention time.Duration) int
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
