package ratelimiter

import (
	"net/http"
	"testing"
	"time"
)

func TestAllowExhaustsBurst(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 3})

	for i := 0; i < 3; i++ {
		if !rl.Allow("src") {
			t.Fatalf("request %d should pass within the burst", i)
		}
	}
	if rl.Allow("src") {
		t.Fatalf("burst exhausted, request must be refused")
	}
}

func TestSourcesAreIndependent(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 1})

	if !rl.Allow("a") {
		t.Fatalf("first source should pass")
	}
	if !rl.Allow("b") {
		t.Fatalf("second source has its own bucket")
	}
	if rl.Allow("a") {
		t.Fatalf("first source is out of tokens")
	}
}

func TestTokensRefill(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 100, MaxBurst: 2})

	rl.Allow("src")
	rl.Allow("src")
	if rl.Allow("src") {
		t.Fatalf("bucket should be empty")
	}

	time.Sleep(50 * time.Millisecond) // ~5 tokens at 100/s, capped at burst

	if !rl.Allow("src") {
		t.Fatalf("tokens should have refilled")
	}
	if rem := rl.Remaining("src"); rem > 2 {
		t.Fatalf("refill must cap at the burst, got %d remaining", rem)
	}
}

func TestGetSourceKey(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, SourceHeaderKey: "X-Forwarded-For"})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	if key := rl.GetSourceKey(req); key != "10.0.0.1:1234" {
		t.Fatalf("fallback must be the remote addr, got %q", key)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	if key := rl.GetSourceKey(req); key != "203.0.113.7" {
		t.Fatalf("header key must win, got %q", key)
	}
}

func TestDefaultBurstFollowsRate(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 7})
	if rl.GetMaxBurst() != 7 {
		t.Fatalf("burst should default to the rate, got %d", rl.GetMaxBurst())
	}
}
