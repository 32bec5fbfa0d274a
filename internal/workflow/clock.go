package workflow

import (
	"sync"
	"time"
)

// sessionClock issues record timestamps at millisecond precision that
// strictly increase within one orchestrator, even when the wall clock stalls
// or steps backwards.
type sessionClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func (c *sessionClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Millisecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t
}
