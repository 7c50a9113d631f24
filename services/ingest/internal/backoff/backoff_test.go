package backoff

import (
	"testing"
	"time"
)

func TestDelayDoublesUntilCap(t *testing.T) {
	p := Policy{Initial: 100 * time.Millisecond, Max: time.Second}

	expected := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}
	for i, want := range expected {
		if got := p.Delay(i + 1); got != want {
			t.Fatalf("attempt %d: expected %v, got %v", i+1, want, got)
		}
	}
}

func TestDelayClampsBogusAttempts(t *testing.T) {
	p := Policy{Initial: 50 * time.Millisecond, Max: time.Second}
	if got := p.Delay(0); got != 50*time.Millisecond {
		t.Fatalf("attempt 0: expected initial delay, got %v", got)
	}
	if got := p.Delay(-3); got != 50*time.Millisecond {
		t.Fatalf("negative attempt: expected initial delay, got %v", got)
	}
}

func TestSleepCancellable(t *testing.T) {
	p := Policy{Initial: time.Minute, Max: time.Minute}
	done := make(chan struct{})
	close(done)

	start := time.Now()
	if p.Sleep(done, 1) {
		t.Fatal("expected cancelled sleep to report false")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancelled sleep took too long: %v", elapsed)
	}
}
