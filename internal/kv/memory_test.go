package kv

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, err := s.Get(ctx, "cart"); err != nil || ok {
		t.Fatalf("get absent: ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "cart", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "cart")
	if err != nil || !ok || v != "[]" {
		t.Fatalf("get: v=%q ok=%v err=%v", v, ok, err)
	}

	// overwrite = last write wins
	_ = s.Set(ctx, "cart", "[1]")
	v, _, _ = s.Get(ctx, "cart")
	if v != "[1]" {
		t.Fatalf("overwrite: got %q", v)
	}
}

func TestMemoryBroadcasterFanout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewMemoryBroadcaster()
	ch1, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	ch2, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := b.Publish(ctx); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for i, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d missed notification", i)
		}
	}
}

func TestMemoryBroadcasterClosesOnCtxDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := NewMemoryBroadcaster()
	ch, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	cancel()
	// a loop ranging over the channel must terminate after cancellation
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel never closed after ctx cancel")
		}
	}
}

func TestMemoryBroadcasterCoalesces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewMemoryBroadcaster()
	ch, _ := b.Subscribe(ctx)

	// several publishes while the subscriber is idle must not block
	for i := 0; i < 10; i++ {
		if err := b.Publish(ctx); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("missed notification")
	}
}
