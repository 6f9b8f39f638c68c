// Package asynchook moves hook calls off the request path.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    SelfHealEvery:    10, // sample logs: ~every 10th self-heal
//	    PrimaryFailEvery: 1,  // log every primary failure
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	fc, _ := fallbackcache.New[Rate](fallbackcache.Options[Rate]{
//	    Fallback: store,
//	    Hooks:    hooks,
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/fallbackcache"
)

// Hooks forwards events to inner from a small worker pool. When the queue is
// full events are dropped and counted.
type Hooks struct {
	inner   fallbackcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed against sends on a closed q
	closed  bool
	dropped atomic.Uint64
}

var _ fallbackcache.Hooks = (*Hooks)(nil)

func New(inner fallbackcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops accepting events and waits for queued ones to run.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded on a full queue or after Close.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) PrimaryFailed(k string, err error) { h.try(func() { h.inner.PrimaryFailed(k, err) }) }
func (h *Hooks) FallbackHit(k string)              { h.try(func() { h.inner.FallbackHit(k) }) }
func (h *Hooks) FallbackMiss(k string, secondary bool) {
	h.try(func() { h.inner.FallbackMiss(k, secondary) })
}
func (h *Hooks) RefreshError(k string, err error)  { h.try(func() { h.inner.RefreshError(k, err) }) }
func (h *Hooks) SelfHeal(k, reason string)         { h.try(func() { h.inner.SelfHeal(k, reason) }) }
func (h *Hooks) ProviderSetRejected(k string)      { h.try(func() { h.inner.ProviderSetRejected(k) }) }
func (h *Hooks) GenBumpError(k string, err error)  { h.try(func() { h.inner.GenBumpError(k, err) }) }
func (h *Hooks) GenSnapshotError(k string, err error) {
	h.try(func() { h.inner.GenSnapshotError(k, err) })
}
func (h *Hooks) DeleteOutage(k string, be, de error) {
	h.try(func() { h.inner.DeleteOutage(k, be, de) })
}
