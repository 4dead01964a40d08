package hal

import (
	"testing"
	"time"
)

func TestHostClockStartsAtZeroAndIsMonotonic(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	c := newHostClock()
	c.now = func() time.Time { return now }

	if got := c.Elapsed(); got != 0 {
		t.Fatalf("first Elapsed() = %v, want 0", got)
	}

	now = base.Add(1500 * time.Millisecond)
	if got := c.Elapsed(); got != 1.5 {
		t.Fatalf("Elapsed() = %v, want 1.5", got)
	}

	// A clock step backwards never moves elapsed time back.
	now = base.Add(500 * time.Millisecond)
	if got := c.Elapsed(); got != 1.5 {
		t.Fatalf("Elapsed() after step back = %v, want 1.5", got)
	}
}
