package cache

import (
	"context"
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	c.Set(ctx, "key1", "value1", 1*time.Second)
	val, ok := c.Get(ctx, "key1")
	if !ok || val != "value1" {
		t.Fatalf("expected value1, got %q, exists=%v", val, ok)
	}
}

func TestExpiration(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	c.Set(ctx, "key1", "value1", 100*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	_, ok := c.Get(ctx, "key1")
	if ok {
		t.Fatalf("expected expired key to return false")
	}
}

func TestDelete(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	c.Set(ctx, "key1", "value1", 1*time.Second)
	c.Set(ctx, "key2", "value2", 1*time.Second)
	c.Delete(ctx, "key1", "key2")
	if _, ok := c.Get(ctx, "key1"); ok {
		t.Fatalf("expected deleted key1 to return false")
	}
	if _, ok := c.Get(ctx, "key2"); ok {
		t.Fatalf("expected deleted key2 to return false")
	}
}

func TestInvalidate(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	c.Set(ctx, "tasks:expanded", "t", 1*time.Second)
	c.Set(ctx, "tasks:count", "3", 1*time.Second)
	c.Set(ctx, "teams:all", "x", 1*time.Second)
	c.Invalidate("tasks:")
	if _, ok := c.Get(ctx, "tasks:expanded"); ok {
		t.Fatalf("expected tasks keys to be invalidated")
	}
	if _, ok := c.Get(ctx, "teams:all"); !ok {
		t.Fatalf("expected teams:all to still exist")
	}
}
