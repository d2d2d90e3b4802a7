package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_Burst(t *testing.T) {
	l := New(1, 5, time.Hour)

	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow("10.0.0.1") {
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("allowed %d requests, want burst of 5", allowed)
	}

	if !l.Allow("10.0.0.2") {
		t.Error("second client should have its own bucket")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := New(0, 0, time.Hour)
	for i := 0; i < 100; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatal("disabled limiter rejected a request")
		}
	}

	var nilLimiter *Limiter
	if !nilLimiter.Allow("x") {
		t.Error("nil limiter rejected a request")
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	l := New(0.001, 1, time.Nanosecond)
	if !l.Allow("c") {
		t.Fatal("first request rejected")
	}
	time.Sleep(time.Millisecond)
	if !l.Allow("c") {
		t.Error("bucket should have been reset by cleanup")
	}
}
