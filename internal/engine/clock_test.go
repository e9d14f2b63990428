package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cricscore/internal/match"
)

func TestClock_Stamp(t *testing.T) {
	inn := match.NewInnings("India")
	inn.Runs, inn.Balls = 7, 4
	m := &match.Match{TeamA: "India", TeamB: "Australia", Innings: [2]*match.Innings{inn, nil}, CurrentInnings: 1}

	c := NewClock()
	assert.Equal(t, int64(0), c.Last())

	ev := c.Stamp(EventRuns, "4", m)
	assert.Equal(t, Event{Seq: 1, Kind: EventRuns, Value: "4", Innings: 1, Score: "7/0 (0.4)"}, ev)
	assert.Equal(t, int64(2), c.Stamp(EventExtra, "wide", m).Seq)
	assert.Equal(t, int64(2), c.Last())
}

func TestClock_StampBeforeInnings(t *testing.T) {
	ev := NewClockAt(9).Stamp(EventToss, "India:bat", &match.Match{TeamA: "India", TeamB: "Australia", CurrentInnings: 1})
	assert.Equal(t, int64(10), ev.Seq)
	assert.Equal(t, 1, ev.Innings)
	assert.Equal(t, "-", ev.Score)
}

func TestClock_RejectedEventsLeaveNoGap(t *testing.T) {
	e, _, _ := newTestEngine(t, 20)
	ctx := context.Background()

	require.NoError(t, e.RecordRuns(ctx, 1))
	require.Error(t, e.RecordRuns(ctx, 7))
	require.NoError(t, e.RecordRuns(ctx, 2))

	log := e.Log()
	seqs := make([]int64, len(log))
	for i, ev := range log {
		seqs[i] = ev.Seq
	}
	for i := 1; i < len(seqs); i++ {
		assert.Equal(t, seqs[i-1]+1, seqs[i], "seqs %v", seqs)
	}
	assert.Equal(t, "2", log[len(log)-1].Value)
}
