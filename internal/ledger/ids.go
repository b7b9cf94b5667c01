package ledger

import (
	"sync"
	"time"
)

// IDGenerator issues record ids that look like millisecond timestamps but are
// strictly increasing, so two records created in the same millisecond still
// get distinct ids.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator returns a generator reading the given clock. A nil clock
// means time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Observe records an id issued earlier, typically one loaded from storage.
// Later ids will be greater than it.
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

// Next returns max(last+1, now in milliseconds).
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := g.last + 1
	if ms := g.now().UnixMilli(); ms > next {
		next = ms
	}
	g.last = next
	return next
}
