package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unkn0wn-root/fallbackcache"
)

type recorder struct {
	fallbackcache.NopHooks
	mu     sync.Mutex
	events []string
	block  chan struct{}
}

func (r *recorder) add(ev string) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) PrimaryFailed(k string, _ error) { r.add("primary_failed:" + k) }
func (r *recorder) FallbackHit(k string)            { r.add("fallback_hit:" + k) }

func TestForwardsAndDrainsOnClose(t *testing.T) {
	rec := &recorder{}
	h := New(rec, 2, 16)

	h.PrimaryFailed("a", errors.New("x"))
	h.FallbackHit("a")
	h.Close()

	assert.ElementsMatch(t, []string{"primary_failed:a", "fallback_hit:a"}, rec.events)
	assert.Zero(t, h.Dropped())
}

func TestDropsWhenFullAndAfterClose(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	h := New(rec, 1, 1)

	// first event parks the worker, second fills the queue, third is dropped
	h.FallbackHit("1")
	h.FallbackHit("2")
	h.FallbackHit("3")
	h.FallbackHit("4")

	close(rec.block)
	h.Close()
	h.FallbackHit("late")

	assert.GreaterOrEqual(t, h.Dropped(), uint64(2))
	assert.NotContains(t, rec.events, "fallback_hit:late")
}
