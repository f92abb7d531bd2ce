package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_Success(t *testing.T) {
	// Start in-memory Redis
	s := miniredis.RunT(t)
	defer s.Close()

	// Use a non-zero DB to verify it's set
	c, err := OpenRedis(s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	// Check the client actually works and uses the right DB
	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Set(ctx, "k", "v", 0).Err(); err != nil {
		t.Fatalf("SET err: %v", err)
	}
	v, err := c.Get(ctx, "k").Result()
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	if v != "v" {
		t.Fatalf("GET value = %q, want %q", v, "v")
	}
}

func TestOpenRedis_Failure(t *testing.T) {
	// Unresolvable host → Ping should fail immediately (no 5s delay)
	if _, err := OpenRedis("not-a-real-host:6379", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestJSONCache(t *testing.T) {
	s := miniredis.RunT(t)
	c, err := OpenRedis(s.Addr(), 0)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	jc := NewJSONCache(c, "lending:")
	ctx := context.Background()

	type payload struct {
		Count int     `json:"count"`
		Rate  float64 `json:"rate"`
	}
	var got payload
	if ok, err := jc.Get(ctx, "market", &got); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := jc.Set(ctx, "market", payload{Count: 3, Rate: 12.5}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !s.Exists("lending:market") {
		t.Fatal("key not stored under prefix")
	}
	if ok, err := jc.Get(ctx, "market", &got); !ok || err != nil || got.Count != 3 || got.Rate != 12.5 {
		t.Fatalf("Get: ok=%v err=%v got=%+v", ok, err, got)
	}

	s.FastForward(2 * time.Minute)
	if ok, _ := jc.Get(ctx, "market", &got); ok {
		t.Fatal("entry survived its ttl")
	}

	if err := s.Set("lending:bad", "{not json"); err != nil {
		t.Fatal(err)
	}
	if ok, err := jc.Get(ctx, "bad", &got); ok || err != nil {
		t.Fatalf("corrupt entry: ok=%v err=%v", ok, err)
	}
	if s.Exists("lending:bad") {
		t.Fatal("corrupt entry not evicted")
	}

	_ = jc.Set(ctx, "x", 1, 0)
	if err := jc.Delete(ctx, "x"); err != nil || s.Exists("lending:x") {
		t.Fatalf("Delete: err=%v", err)
	}
}
