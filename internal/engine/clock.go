package engine

import (
	"sync/atomic"

	"github.com/roach88/cricscore/internal/match"
)

// Clock numbers accepted events. The engine only asks it for a stamp
// after an event has been applied, so rejected events leave no gap.
type Clock struct {
	last atomic.Int64
}

// NewClock returns a clock whose first stamp is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a clock that continues a log whose last seq was
// after, e.g. when a match is rebuilt from an earlier session.
func NewClockAt(after int64) *Clock {
	c := &Clock{}
	c.last.Store(after)
	return c
}

// Stamp builds the log entry for an event just applied to m.
func (c *Clock) Stamp(kind EventKind, value string, m *match.Match) Event {
	return Event{
		Seq:     c.last.Add(1),
		Kind:    kind,
		Value:   value,
		Innings: m.CurrentInnings,
		Score:   scoreLine(m),
	}
}

// Last returns the seq of the most recent stamp, 0 before the first.
func (c *Clock) Last() int64 {
	return c.last.Load()
}
