package analytics

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.allow("203.0.113.1") {
			t.Fatalf("request %d blocked below the limit", i+1)
		}
	}
	if rl.allow("203.0.113.1") {
		t.Errorf("request above the limit allowed")
	}
}

func TestRateLimiterIsPerKey(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)

	if !rl.allow("203.0.113.1") {
		t.Fatalf("first key blocked")
	}
	if !rl.allow("203.0.113.2") {
		t.Errorf("second key blocked by first key's hits")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := newRateLimiter(1, 50*time.Millisecond)

	if !rl.allow("203.0.113.1") {
		t.Fatalf("first request blocked")
	}
	if rl.allow("203.0.113.1") {
		t.Fatalf("second request allowed within window")
	}

	time.Sleep(80 * time.Millisecond)
	if !rl.allow("203.0.113.1") {
		t.Errorf("request blocked after window passed")
	}
}

func TestPruneHits(t *testing.T) {
	now := time.Now()
	hits := []time.Time{now.Add(-3 * time.Second), now.Add(-1 * time.Second), now}

	kept := pruneHits(hits, now.Add(-2*time.Second))
	if len(kept) != 2 {
		t.Errorf("kept %d hits, want 2", len(kept))
	}
}
