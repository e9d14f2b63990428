package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cricscore/internal/match"
	"github.com/roach88/cricscore/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine returns an engine with India batting first against
// Australia, Rohit on strike, Gill at the other end and Starc bowling.
func newTestEngine(t *testing.T, overs int, answers ...testutil.Answer) (*Engine, *testutil.ScriptedPrompter, *testutil.MemoryRecorder) {
	t.Helper()
	p := testutil.NewScriptedPrompter(answers...)
	r := testutil.NewMemoryRecorder()

	e, err := New(Setup{TeamA: "India", TeamB: "Australia", Overs: overs}, p, r, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, e.Toss("India", match.DecisionBat))
	require.NoError(t, e.Start(context.Background(), Openers{Striker: "Rohit", NonStriker: "Gill", Bowler: "Starc"}))
	return e, p, r
}

// assertConsistent checks the runs and balls invariants of every innings.
func assertConsistent(t *testing.T, m *match.Match) {
	t.Helper()
	for i, inn := range m.Innings {
		if inn == nil {
			continue
		}
		runs, balls := 0, 0
		for _, b := range inn.Batters {
			runs += b.Runs
			balls += b.Balls
		}
		assert.Equal(t, inn.Runs, runs+inn.Extras.Total, "innings %d runs invariant", i+1)
		assert.Equal(t, inn.Balls, balls, "innings %d balls invariant", i+1)
		assert.Equal(t, inn.Extras.Total, inn.Extras.Wides+inn.Extras.NoBalls+inn.Extras.LegByes+inn.Extras.Byes)
	}
	assert.GreaterOrEqual(t, m.DRSTeamA, 0)
	assert.LessOrEqual(t, m.DRSTeamA, match.DefaultReviews)
	assert.GreaterOrEqual(t, m.DRSTeamB, 0)
	assert.LessOrEqual(t, m.DRSTeamB, match.DefaultReviews)
}

func count(items []string, want string) int {
	n := 0
	for _, s := range items {
		if s == want {
			n++
		}
	}
	return n
}

func TestNew_Validation(t *testing.T) {
	p := testutil.NewScriptedPrompter()

	tests := []struct {
		name  string
		setup Setup
	}{
		{"missing team", Setup{TeamA: "India", TeamB: "  ", Overs: 20}},
		{"same team after folding", Setup{TeamA: "India", TeamB: " INDIA", Overs: 20}},
		{"zero overs", Setup{TeamA: "India", TeamB: "Australia", Overs: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.setup, p, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSetup)
			assert.True(t, IsRuleViolation(err))
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	e, err := New(Setup{TeamA: "India", TeamB: "Australia", Overs: 20}, testutil.NewScriptedPrompter(), nil)
	require.NoError(t, err)

	m := e.Match()
	assert.Equal(t, match.PhaseSetup, m.Phase)
	assert.Equal(t, match.StatusLive, m.Status)
	assert.Equal(t, 2, m.DRSTeamA)
	assert.Equal(t, 2, m.DRSTeamB)
	assert.Equal(t, 1, m.CurrentInnings)
	assert.Nil(t, m.Target)
	assert.Nil(t, m.Innings[0])
	assert.Nil(t, m.Innings[1])
}

func TestToss(t *testing.T) {
	e, err := New(Setup{TeamA: "India", TeamB: "Australia", Overs: 20}, testutil.NewScriptedPrompter(), nil)
	require.NoError(t, err)

	err = e.Toss("England", match.DecisionBat)
	assert.ErrorIs(t, err, ErrInvalidSetup)

	require.NoError(t, e.Toss("india", match.DecisionBowl))
	m := e.Match()
	assert.Equal(t, "India won the toss and elected to bowl", m.Toss)
	assert.Equal(t, "Australia", m.BattingFirst)
	assert.Equal(t, "India", m.BattingSecond)
}

func TestStart(t *testing.T) {
	e, _, _ := newTestEngine(t, 20)

	m := e.Match()
	assert.Equal(t, match.PhaseLive, m.Phase)
	require.NotNil(t, m.Innings[0])
	assert.Nil(t, m.Innings[1])
	assert.Equal(t, "India", m.Innings[0].TeamName)
	assert.Equal(t, "Rohit", m.Innings[0].Striker().Name)
	assert.Equal(t, "Gill", m.Innings[0].NonStriker().Name)
	assert.Equal(t, "Starc", m.Innings[0].Bowler().Name)
	assert.Equal(t, match.NotOut, m.Innings[0].Striker().OutDesc)

	err := e.Start(context.Background(), Openers{Striker: "A", NonStriker: "B", Bowler: "C"})
	assert.ErrorIs(t, err, ErrMatchNotLive)
}

func TestStart_RequiresToss(t *testing.T) {
	e, err := New(Setup{TeamA: "India", TeamB: "Australia", Overs: 20}, testutil.NewScriptedPrompter(), nil)
	require.NoError(t, err)

	err = e.Start(context.Background(), Openers{Striker: "Rohit", NonStriker: "Gill", Bowler: "Starc"})
	assert.ErrorIs(t, err, ErrInvalidSetup)
	assert.Equal(t, match.PhaseSetup, e.Phase())
}

func TestStart_SameOpeners(t *testing.T) {
	e, err := New(Setup{TeamA: "India", TeamB: "Australia", Overs: 20}, testutil.NewScriptedPrompter(), nil)
	require.NoError(t, err)
	require.NoError(t, e.Toss("India", match.DecisionBat))

	err = e.Start(context.Background(), Openers{Striker: "Rohit", NonStriker: " ROHIT", Bowler: "Starc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSameOpeners)
	assert.Equal(t, match.PhaseSetup, e.Phase())
	assert.Nil(t, e.Match().Innings[0])
}

func TestStart_DefaultNames(t *testing.T) {
	e, err := New(Setup{TeamA: "India", TeamB: "Australia", Overs: 20}, testutil.NewScriptedPrompter(), nil)
	require.NoError(t, err)
	require.NoError(t, e.Toss("Australia", match.DecisionBat))
	require.NoError(t, e.Start(context.Background(), Openers{}))

	inn := e.Match().Innings[0]
	assert.Equal(t, "Australia", inn.TeamName)
	assert.Equal(t, "Batter 1", inn.Batters[0].Name)
	assert.Equal(t, "Batter 2", inn.Batters[1].Name)
	assert.Equal(t, "Bowler", inn.Bowlers[0].Name)
}

func TestMatch_ReturnsCopy(t *testing.T) {
	e, _, _ := newTestEngine(t, 20)

	m := e.Match()
	m.Innings[0].Runs = 99
	m.Innings[0].Batters[0].Name = "Changed"

	fresh := e.Match()
	assert.Equal(t, 0, fresh.Innings[0].Runs)
	assert.Equal(t, "Rohit", fresh.Innings[0].Batters[0].Name)
}

func TestLog_StampsAcceptedEventsOnly(t *testing.T) {
	e, _, _ := newTestEngine(t, 20)
	ctx := context.Background()

	require.NoError(t, e.RecordRuns(ctx, 4))
	require.Error(t, e.RecordRuns(ctx, 9))
	require.NoError(t, e.RecordExtra(ctx, match.Wide))

	log := e.Log()
	require.Len(t, log, 4)
	for i, ev := range log {
		assert.Equal(t, int64(i+1), ev.Seq, "seq must have no gaps")
	}
	assert.Equal(t, EventToss, log[0].Kind)
	assert.Equal(t, EventStart, log[1].Kind)
	assert.Equal(t, EventRuns, log[2].Kind)
	assert.Equal(t, "4", log[2].Value)
	assert.Equal(t, "4/0 (0.1)", log[2].Score)
	assert.Equal(t, EventExtra, log[3].Kind)
	assert.Equal(t, "5/0 (0.1)", log[3].Score)
}

func TestWithClock(t *testing.T) {
	p := testutil.NewScriptedPrompter()
	e, err := New(Setup{TeamA: "India", TeamB: "Australia", Overs: 20}, p, nil,
		WithClock(NewClockAt(41)),
		WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	require.NoError(t, e.Toss("India", match.DecisionBat))

	assert.Equal(t, int64(42), e.Log()[0].Seq)
}

func TestEngineBusy_RejectsReentrantEvents(t *testing.T) {
	e, p, _ := newTestEngine(t, 20)
	ctx := context.Background()

	var nested error
	p.OnNotify = func(ctx context.Context, msg string) {
		if msg == "FREE HIT! Next ball is a Free Hit." {
			nested = e.RecordRuns(ctx, 1)
		}
	}

	require.NoError(t, e.RecordExtra(ctx, match.NoBall))
	require.Error(t, nested)
	assert.ErrorIs(t, nested, ErrEngineBusy)

	m := e.Match()
	assert.Equal(t, 1, m.Innings[0].Runs, "nested event must not be applied")
	assert.True(t, m.FreeHit)
}

func TestRuleViolationsLeaveStateUnchanged(t *testing.T) {
	e, _, _ := newTestEngine(t, 20)
	ctx := context.Background()
	require.NoError(t, e.RecordRuns(ctx, 2))

	before := e.Match()

	assert.ErrorIs(t, e.RecordRuns(ctx, -1), ErrInvalidRuns)
	assert.ErrorIs(t, e.RecordRuns(ctx, 7), ErrInvalidRuns)
	assert.ErrorIs(t, e.RecordExtra(ctx, match.ExtraKind("bye")), ErrInvalidExtra)
	assert.ErrorIs(t, e.RecordWicket(ctx, match.WicketKind("timed_out")), ErrInvalidDismissal)
	_, err := e.UseReview(ctx, match.Side("C"))
	assert.ErrorIs(t, err, ErrInvalidSide)

	assert.Equal(t, before, e.Match())
}
