package ristretto

import (
	"bytes"
	"context"
	"testing"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Config{NumCounters: 1e4, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for zero config")
	}
}

func TestSetIsVisibleToNextGet(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	ok, err := p.Set(ctx, "k", []byte("v"), 1, 0)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !ok {
		t.Skip("admission policy dropped the write")
	}
	b, hit, err := p.Get(ctx, "k")
	if err != nil || !hit || !bytes.Equal(b, []byte("v")) {
		t.Fatalf("Get after Set: b=%q hit=%v err=%v", b, hit, err)
	}
	if existed, _ := p.Del(ctx, "k"); !existed {
		t.Fatalf("Del should report present entry")
	}
	if _, hit, _ := p.Get(ctx, "k"); hit {
		t.Fatalf("entry still present after Del")
	}
}
