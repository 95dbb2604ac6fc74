package cache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	cerrors "github.com/moviegate/respcache/v1/errors"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisCache[map[string]any]) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c, err := NewRedis[map[string]any](client, nil, ttl)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	return mr, c
}

func TestRedisCacheRoundTrip(t *testing.T) {
	_, c := newTestRedis(t, time.Minute)
	ctx := context.Background()

	payload := map[string]any{"title": "Dune", "year": "2021"}
	if err := c.Set(ctx, "resp:1", payload); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, "resp:1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected value, got miss")
	}
	if !reflect.DeepEqual(got, payload) {
		t.Fatalf("expected %+v, got %+v", payload, got)
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	mr, c := newTestRedis(t, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "resp:2", map[string]any{"a": "b"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, ok, err := c.Get(ctx, "resp:2"); err != nil || ok {
		t.Fatalf("expected miss after TTL, got ok=%v err=%v", ok, err)
	}
}

func TestRedisCacheInvalidate(t *testing.T) {
	_, c := newTestRedis(t, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "resp:3", map[string]any{"a": "b"})
	if err := c.Invalidate(ctx, "resp:3"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "resp:3"); ok {
		t.Fatal("expected key to be gone")
	}
}

func TestRedisCacheConfigValidation(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	if _, err := NewRedis[string](client, nil, 0); !errors.Is(err, cerrors.ErrInvalidTTL) {
		t.Fatalf("expected ErrInvalidTTL, got %v", err)
	}
}

func TestRedisCacheBackendError(t *testing.T) {
	mr, c := newTestRedis(t, time.Minute)
	ctx := context.Background()
	mr.Close()
	if _, _, err := c.Get(ctx, "resp:4"); err == nil {
		t.Fatal("expected transport error from closed backend")
	}
}
