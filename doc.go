// Package fallbackcache serves last-known-good values when a computation
// fails.
//
// A FallbackCache wraps one Store. Every successful primary result replaces
// the stored entry; when the primary fails the stored entry is returned
// instead, and only with nothing stored does the failure reach the caller
// (or, with GetWithSecondary, the secondary operation takes over).
//
// Components:
//   - Store[V]: get-with-loader + delete contract the fallback lives in.
//   - ReadThrough[V]: a Store over a byte Provider (Ristretto, BigCache, Redis),
//     a Codec[V] and a GenStore of per-key generations.
//   - NullStore[V]: keeps nothing.
//
// Keys (ReadThrough):
//
//	fb:<ns>:<key>  - stored entries
//
// Usage:
//
//	store, _ := fallbackcache.NewStore[Rate](fallbackcache.StoreOptions[Rate]{
//	    Namespace: "rates",
//	    Provider:  p,
//	    Codec:     codec.JSON[Rate]{},
//	})
//	fc, _ := fallbackcache.New[Rate](fallbackcache.Options[Rate]{Fallback: store})
//	rate, err := fc.Get(ctx, "EUR:USD", fetchRate) // fetchRate down => last good rate
package fallbackcache
