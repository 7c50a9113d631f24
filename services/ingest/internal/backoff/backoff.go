package backoff

import "time"

// Policy computes capped exponential delays. The zero value is unusable;
// construct with sane positive durations.
type Policy struct {
	Initial time.Duration
	Max     time.Duration
}

// Delay returns the wait before retry number attempt (first retry is 1).
// The delay doubles per attempt and never exceeds Max.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.Initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.Max {
			return p.Max
		}
	}
	if d > p.Max {
		return p.Max
	}
	return d
}

// Sleep waits for the attempt's delay or until done is closed/cancelled.
// It reports whether the full delay elapsed.
func (p Policy) Sleep(done <-chan struct{}, attempt int) bool {
	timer := time.NewTimer(p.Delay(attempt))
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-done:
		return false
	}
}
