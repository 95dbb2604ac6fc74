package presets

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNewStandalone(t *testing.T) {
	c, err := NewStandalone[string]()
	if err != nil {
		t.Fatalf("NewStandalone: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, _ := c.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("expected v, got %q (found=%v)", v, ok)
	}
}

func TestNewShared(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	defer mr.Close()

	c, err := NewShared[string](RedisOptions{Addr: mr.Addr()}, time.Minute)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, _ := c.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("expected v, got %q (found=%v)", v, ok)
	}

	// A dead backend must read as a miss, not an error.
	mr.Close()
	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected resilient miss, got ok=%v err=%v", ok, err)
	}
}

func TestNewSharedConfigValidation(t *testing.T) {
	if _, err := NewShared[string](RedisOptions{Addr: "localhost:0"}, 0); err == nil {
		t.Fatal("expected configuration error for zero ttl")
	}
}
