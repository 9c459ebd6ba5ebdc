//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCache_Integration(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	key := "harvester:test:" + time.Now().Format(time.RFC3339Nano)
	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get() = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("key should be gone after Delete")
	}
}
