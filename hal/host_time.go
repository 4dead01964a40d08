package hal

import (
	"sync"
	"time"
)

// hostClock starts on the first read and never goes backwards.
type hostClock struct {
	mu    sync.Mutex
	now   func() time.Time
	start time.Time
	last  float64
}

func newHostClock() *hostClock {
	return &hostClock{now: time.Now}
}

func (c *hostClock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.start.IsZero() {
		c.start = now
	}
	sec := now.Sub(c.start).Seconds()
	if sec < c.last {
		sec = c.last
	}
	c.last = sec
	return sec
}
