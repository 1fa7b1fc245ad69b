package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("client-a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("client-a") {
		t.Fatalf("request over the limit should be denied")
	}

	// A different key has its own bucket
	if !l.Allow("client-b") {
		t.Fatalf("separate key should not share the bucket")
	}
}

func TestAllowEmptyKeyNeverLimited(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		if !l.Allow("") {
			t.Fatalf("empty key must never be limited")
		}
	}
}

func TestAllowWindowSlides(t *testing.T) {
	l := NewLimiter(1, 20*time.Millisecond)
	defer l.Stop()

	if !l.Allow("client") {
		t.Fatalf("first request should be allowed")
	}
	if l.Allow("client") {
		t.Fatalf("second request inside the window should be denied")
	}

	time.Sleep(30 * time.Millisecond)
	if !l.Allow("client") {
		t.Fatalf("request after the window should be allowed")
	}
}

func TestAllowStrictSeparateBucket(t *testing.T) {
	l := NewLimiter(100, time.Minute)
	defer l.Stop()

	for i := 0; i < 2; i++ {
		if !l.AllowStrict("client", 2, time.Minute) {
			t.Fatalf("strict request %d should be allowed", i+1)
		}
	}
	if l.AllowStrict("client", 2, time.Minute) {
		t.Fatalf("strict request over the limit should be denied")
	}

	// The default window for the same key is unaffected
	if !l.Allow("client") {
		t.Fatalf("default bucket should be independent of the strict one")
	}
}
