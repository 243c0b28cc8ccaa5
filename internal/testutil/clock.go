package testutil

import (
	"fmt"
	"sync"
	"time"
)

// Epoch is the first instant a TickClock reports by default: a Monday morning
// desk cleanup.
var Epoch = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// DefaultTick separates consecutive readings of a TickClock.
const DefaultTick = time.Second

// TickClock reports a deterministic time that moves forward by a fixed step
// on every reading, so each transfer and operation in a batch gets a distinct
// timestamp.
type TickClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewTickClock starts at start and advances by step per Now call.
func NewTickClock(start time.Time, step time.Duration) *TickClock {
	return &TickClock{next: start, step: step}
}

// DeskClock is a TickClock at Epoch with DefaultTick.
func DeskClock() *TickClock {
	return NewTickClock(Epoch, DefaultTick)
}

func (c *TickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

// Peek returns the time the next Now call will report.
func (c *TickClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// Skip jumps the clock forward, e.g. to age history entries.
func (c *TickClock) Skip(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = c.next.Add(d)
}

// SequenceIDs hands out "<prefix>-1", "<prefix>-2", ... and remembers them.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	issued []string
}

// NewSequenceIDs creates a generator for operation IDs ("op-1", ...).
func NewSequenceIDs() *SequenceIDs {
	return &SequenceIDs{prefix: "op"}
}

func (g *SequenceIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%d", g.prefix, len(g.issued)+1)
	g.issued = append(g.issued, id)
	return id
}

// Issued lists every ID handed out so far, oldest first.
func (g *SequenceIDs) Issued() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.issued...)
}
