package cache

import (
	"context"
	"errors"
	"testing"
)

func TestNewRedisProviderRejectsBadConnectionString(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisProvider("not-a-url"); err == nil {
		t.Fatalf("expected error for malformed connection string")
	}
}

func TestRedisCacheKeyIsNamespaced(t *testing.T) {
	t.Parallel()

	if got := redisCacheKey("catalog:products"); got != "cache:catalog:products" {
		t.Fatalf("redisCacheKey() = %q, want %q", got, "cache:catalog:products")
	}
}

func TestRedisProviderNilSafety(t *testing.T) {
	t.Parallel()

	var provider *RedisProvider

	if _, err := provider.Get(context.Background(), "key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on nil provider error = %v, want ErrNotFound", err)
	}
	if err := provider.Set(context.Background(), "key", "value", 0); err != nil {
		t.Fatalf("Set() on nil provider error = %v", err)
	}
	if err := provider.Delete(context.Background(), "key"); err != nil {
		t.Fatalf("Delete() on nil provider error = %v", err)
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("Close() on nil provider error = %v", err)
	}
}
