package genstore

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLocalSnapshotMissingIsZero(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	g, err := s.Snapshot(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if g != 0 {
		t.Fatalf("expected 0 for missing key, got %d", g)
	}
}

func TestLocalBumpMovesForwardPerKey(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	var last uint64
	for i := 0; i < 3; i++ {
		g, err := s.Bump(ctx, "b")
		if err != nil {
			t.Fatal(err)
		}
		if g <= last {
			t.Fatalf("Bump #%d returned %d, not above %d", i+1, g, last)
		}
		last = g
	}
	if g, _ := s.Snapshot(ctx, "b"); g != last {
		t.Fatalf("Snapshot(b)=%d want %d", g, last)
	}
	if g, _ := s.Snapshot(ctx, "a"); g != 0 {
		t.Fatalf("Snapshot(a)=%d want 0", g)
	}
}

// TestLocalBumpOrdersAcrossStores: a store that bumps later holds the higher
// generation, even when the other store bumped the key more often.
func TestLocalBumpOrdersAcrossStores(t *testing.T) {
	ctx := context.Background()
	a := NewLocalGenStore(0, 0)
	b := NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = a.Close(ctx); _ = b.Close(ctx) })

	var ga uint64
	for i := 0; i < 5; i++ {
		ga, _ = a.Bump(ctx, "k")
	}
	time.Sleep(time.Millisecond)
	gb, _ := b.Bump(ctx, "k")
	if gb <= ga {
		t.Fatalf("later bump should be higher: a=%d b=%d", ga, gb)
	}
}

func TestLocalConcurrentBumps(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	const n = 64
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[uint64]bool, n)
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			g, _ := s.Bump(ctx, "k")
			mu.Lock()
			seen[g] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("expected %d distinct generations, got %d", n, len(seen))
	}
	var top uint64
	for g := range seen {
		top = max(top, g)
	}
	if g, _ := s.Snapshot(ctx, "k"); g != top {
		t.Fatalf("Snapshot=%d want highest bump %d", g, top)
	}
}

func TestLocalCleanupPrunesOld(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	if _, err := s.Bump(ctx, "old"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := s.Bump(ctx, "fresh"); err != nil {
		t.Fatal(err)
	}

	if removed := s.Cleanup(25 * time.Millisecond); removed != 1 {
		t.Fatalf("expected 1 pruned, got %d", removed)
	}
	if g, _ := s.Snapshot(ctx, "old"); g != 0 {
		t.Fatalf("expected pruned -> 0, got %d", g)
	}
	if g, _ := s.Snapshot(ctx, "fresh"); g == 0 {
		t.Fatalf("fresh key should survive cleanup, got %d", g)
	}
}

func TestLocalCleanupDisabledWithoutRetention(t *testing.T) {
	s := NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	_, _ = s.Bump(context.Background(), "k")
	if removed := s.Cleanup(0); removed != 0 {
		t.Fatalf("Cleanup(0) must not prune, removed %d", removed)
	}
}

func TestLocalCloseIdempotent(t *testing.T) {
	s := NewLocalGenStore(time.Millisecond, time.Hour)
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
}
