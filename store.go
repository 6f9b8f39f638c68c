package fallbackcache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/singleflight"

	c "github.com/unkn0wn-root/fallbackcache/codec"
	gen "github.com/unkn0wn-root/fallbackcache/genstore"
	"github.com/unkn0wn-root/fallbackcache/internal/wire"
	pr "github.com/unkn0wn-root/fallbackcache/provider"
)

type SetCostFunc func(storageKey string, raw []byte) int64

// unversioned is the frame generation used when no snapshot could be taken.
// It never compares below a snapshot, so such an entry is served until it is
// deleted or replaced.
const unversioned uint64 = math.MaxUint64

// StoreOptions configure a ReadThrough store.
// Namespace, Provider and Codec are required; others have sensible defaults.
type StoreOptions[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "rates", "profile"
	Provider  pr.Provider
	Codec     c.Codec[V]

	Logger          Logger        // if nil, NopLogger is used
	Hooks           Hooks         // if nil, NopHooks is used
	DefaultTTL      time.Duration // 0 => no expiry
	GenStore        gen.GenStore  // nil => LocalGenStore (in-process); share a RedisGenStore across replicas
	// LocalGenStore pruning; 0 => off. Every Delete and every refresh bumps
	// the key's generation, so without pruning the local map keeps one entry
	// per key ever written. A pruned key reads as 0 and its stored entry is
	// still served.
	CleanupInterval time.Duration
	GenRetention    time.Duration
	ComputeSetCost  SetCostFunc   // default 1
	Coalesce        bool          // share one loader run between concurrent misses on a key
	Disabled        bool          // always load, never store
}

// ReadThrough is a Store over a byte Provider.
//
// Every entry is framed with the generation observed before its loader ran.
// Delete bumps the generation, so a load that raced with a delete cannot
// resurrect the deleted value: its write is skipped, or dropped on read.
// Only an entry framed below the current generation is stale; one framed above
// it was written by a store that has seen more deletes (another replica, or
// this process before a restart) and is served.
type ReadThrough[V any] struct {
	ns             string
	provider       pr.Provider
	codec          c.Codec[V]
	log            Logger
	hooks          Hooks
	enabled        bool
	defaultTTL     time.Duration
	computeSetCost SetCostFunc
	gen            gen.GenStore
	coalesce       bool
	group          singleflight.Group
}

var _ Store[struct{}] = (*ReadThrough[struct{}])(nil)

func NewStore[V any](opts StoreOptions[V]) (*ReadThrough[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("fallbackcache: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("fallbackcache: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("fallbackcache: namespace is required")
	}

	s := &ReadThrough[V]{
		ns:         opts.Namespace,
		provider:   opts.Provider,
		codec:      opts.Codec,
		enabled:    !opts.Disabled,
		defaultTTL: opts.DefaultTTL,
		coalesce:   opts.Coalesce,
	}

	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if opts.ComputeSetCost != nil {
		s.computeSetCost = opts.ComputeSetCost
	} else {
		s.computeSetCost = func(string, []byte) int64 { return 1 }
	}

	if opts.GenStore != nil {
		s.gen = opts.GenStore
	} else {
		s.gen = gen.NewLocalGenStore(opts.CleanupInterval, opts.GenRetention)
	}

	return s, nil
}

func (s *ReadThrough[V]) Enabled() bool { return s.enabled }

// Close closes the generation store, then the provider.
func (s *ReadThrough[V]) Close(ctx context.Context) error {
	genErr := s.gen.Close(ctx)
	return errors.Join(genErr, s.provider.Close(ctx))
}

// Get returns the stored value for key or, on a miss, loads and stores it
// under the default TTL.
func (s *ReadThrough[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	return s.GetWithTTL(ctx, key, s.defaultTTL, load)
}

// GetWithTTL is Get with a per-call TTL (<= 0 => no expiry).
//
// Loader errors are returned exactly as the loader produced them.
// Provider errors on the read are returned as well; they are not a miss.
func (s *ReadThrough[V]) GetWithTTL(ctx context.Context, key string, ttl time.Duration, load Loader[V]) (V, error) {
	var zero V
	if !s.enabled {
		return load(ctx)
	}
	k := s.storageKey(key)
	obs, genOK := s.snapshotGen(ctx, k)

	v, ok, err := s.lookup(ctx, k, obs, genOK)
	if err != nil {
		return zero, err
	}
	if ok {
		return v, nil
	}

	if !s.coalesce {
		return s.fill(ctx, key, k, obs, genOK, ttl, load)
	}
	ran := false
	res, err, _ := s.group.Do(k, func() (any, error) {
		ran = true
		return s.fill(ctx, key, k, obs, genOK, ttl, load)
	})
	if err != nil && !ran {
		// another caller's load failed; only its successes are shared
		return s.fill(ctx, key, k, obs, genOK, ttl, load)
	}
	if err != nil {
		return zero, err
	}
	v, _ = res.(V)
	return v, nil
}

// Set replaces the entry for key with v under the default TTL. It writes
// directly and never joins a coalesced load.
func (s *ReadThrough[V]) Set(ctx context.Context, key string, v V) error {
	if !s.enabled {
		return nil
	}
	k := s.storageKey(key)
	if _, err := s.remove(ctx, key, k); err != nil {
		return err
	}
	obs, genOK := s.snapshotGen(ctx, k)
	return s.write(ctx, key, k, obs, genOK, s.defaultTTL, v)
}

// Delete bumps the key's generation and removes the stored bytes. It reports
// true only when the removed entry is one Get would have served.
//
// It fails only when neither step went through; a successful bump alone is
// enough to keep the old entry from being served.
func (s *ReadThrough[V]) Delete(ctx context.Context, key string) (bool, error) {
	if !s.enabled {
		return false, nil
	}
	k := s.storageKey(key)
	live := s.live(ctx, k)
	existed, err := s.remove(ctx, key, k)
	return existed && live, err
}

func (s *ReadThrough[V]) remove(ctx context.Context, key, k string) (bool, error) {
	newGen, bumpErr := s.gen.Bump(ctx, k)
	if bumpErr != nil {
		s.log.Error("gen bump error", Fields{"key": k, "err": bumpErr})
		s.hooks.GenBumpError(k, bumpErr)
	}
	existed, delErr := s.provider.Del(ctx, k)

	switch {
	case bumpErr != nil && delErr != nil:
		s.hooks.DeleteOutage(key, bumpErr, delErr)
		return false, &DeleteError{Key: key, BumpErr: bumpErr, DelErr: delErr}
	case delErr != nil:
		s.log.Warn("provider delete failed; entry hidden by gen bump", Fields{"key": key, "newGen": newGen, "err": delErr})
		return false, nil
	}
	s.log.Debug("deleted key (bumped gen + cleared entry)", Fields{"key": key, "newGen": newGen, "existed": existed})
	return existed, nil
}

// lookup reads and validates the entry under storage key k. Anything wrong
// with the stored bytes is deleted and reported as a miss. Without a
// generation snapshot the entry is served unchecked rather than dropped:
// a generation store outage must not wipe out fallback values.
func (s *ReadThrough[V]) lookup(ctx context.Context, k string, obs uint64, genOK bool) (V, bool, error) {
	var zero V
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	g, payload, err := wire.Decode(raw)
	if err != nil {
		s.selfHeal(ctx, k, "corrupt")
		return zero, false, nil
	}
	if genOK && g < obs {
		s.selfHeal(ctx, k, "gen_mismatch")
		return zero, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.selfHeal(ctx, k, "value_decode")
		return zero, false, nil
	}
	return v, true, nil
}

// fill runs load and stores its value.
func (s *ReadThrough[V]) fill(ctx context.Context, key, k string, obs uint64, genOK bool, ttl time.Duration, load Loader[V]) (V, error) {
	var zero V
	v, err := load(ctx)
	if err != nil {
		return zero, err
	}
	if err := s.write(ctx, key, k, obs, genOK, ttl, v); err != nil {
		return zero, err
	}
	return v, nil
}

// write frames v with the observed generation and stores it. Without a
// snapshot the frame is unversioned. A write whose generation has moved since
// obs is skipped.
func (s *ReadThrough[V]) write(ctx context.Context, key, k string, obs uint64, genOK bool, ttl time.Duration, v V) error {
	g := unversioned
	if genOK {
		if cur, ok := s.snapshotGen(ctx, k); ok && cur != obs {
			// deleted while loading; the value is still the caller's answer
			s.log.Debug("store skipped (gen moved during load)", Fields{"key": key, "obs": obs})
			return nil
		}
		g = obs
	} else {
		s.log.Debug("storing unversioned (no gen snapshot)", Fields{"key": key})
	}
	payload, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("fallbackcache: encode %q: %w", key, err)
	}
	raw := wire.Encode(g, payload)
	ok, err := s.provider.Set(ctx, k, raw, s.computeSetCost(k, raw), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("store rejected by provider (pressure)", Fields{"key": key})
		s.hooks.ProviderSetRejected(k)
	}
	return nil
}

// live reports whether k holds an entry Get would serve. When the provider
// cannot be read it reports true and leaves the answer to the delete.
func (s *ReadThrough[V]) live(ctx context.Context, k string) bool {
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil {
		return true
	}
	if !ok {
		return false
	}
	g, payload, err := wire.Decode(raw)
	if err != nil {
		return false
	}
	if _, err := s.codec.Decode(payload); err != nil {
		return false
	}
	obs, err := s.gen.Snapshot(ctx, k)
	return err != nil || g >= obs
}

func (s *ReadThrough[V]) selfHeal(ctx context.Context, k, reason string) {
	_, _ = s.provider.Del(ctx, k)
	s.log.Debug("dropped unusable entry", Fields{"key": k, "reason": reason})
	s.hooks.SelfHeal(k, reason)
}

func (s *ReadThrough[V]) snapshotGen(ctx context.Context, k string) (uint64, bool) {
	g, err := s.gen.Snapshot(ctx, k)
	if err != nil {
		s.log.Warn("gen snapshot error", Fields{"key": k, "err": err})
		s.hooks.GenSnapshotError(k, err)
		return 0, false
	}
	return g, true
}

func (s *ReadThrough[V]) storageKey(userKey string) string {
	// isolate by namespace
	return "fb:" + s.ns + ":" + userKey
}
