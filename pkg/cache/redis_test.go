package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestRedisCache runs against a live server when POPCHART_REDIS_URL is set.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("POPCHART_REDIS_URL")
	if url == "" {
		t.Skip("POPCHART_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "popchart:test:" + Hash([]byte(t.Name()+time.Now().String()))
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set = %v, %v; want miss", hit, err)
	}
	if err := c.Set(ctx, key, []byte("png-bytes"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "png-bytes" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry still present after Delete")
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-redis-url"); err == nil {
		t.Error("expected error for malformed URL")
	}
}
