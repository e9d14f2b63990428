package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cricscore/internal/match"
	"github.com/roach88/cricscore/internal/testutil"
)

// playTie scores six singles in each innings of a one-over match.
func playTie(t *testing.T, e *Engine, p *testutil.ScriptedPrompter) {
	t.Helper()
	p.AllowDefaults = true
	for i := 0; i < 12; i++ {
		require.NoError(t, e.RecordRuns(context.Background(), 1))
	}
	p.AllowDefaults = false
}

func TestSetStatus_Stumps(t *testing.T) {
	e, p, _ := newTestEngine(t, 20, testutil.Yes())

	require.NoError(t, e.SetStatus(context.Background(), match.StatusStumps))

	assert.Equal(t, match.StatusLive, e.Match().Status)
	assert.Equal(t, []string{"Resume match tomorrow?"}, p.Prompts("confirm"))
	assert.Equal(t, []string{"Stumps - Day End", "Match Resumed!"}, p.Notifications())
}

func TestSetStatus_LunchThenResume(t *testing.T) {
	e, p, _ := newTestEngine(t, 20, testutil.No(), testutil.Yes())
	ctx := context.Background()

	require.NoError(t, e.SetStatus(ctx, match.StatusLunch))
	assert.Equal(t, match.StatusLunch, e.Match().Status)
	assert.Equal(t, []string{"Lunch Break"}, p.Notifications())

	require.NoError(t, e.RecordRuns(ctx, 1), "a status label does not stop scoring")

	require.NoError(t, e.Resume(ctx))
	assert.Equal(t, match.StatusLive, e.Match().Status)
	assert.Equal(t, []string{"Resume match?", "Resume match?"}, p.Prompts("confirm"))

	assert.ErrorIs(t, e.Resume(ctx), ErrMatchNotPaused)
}

func TestSetStatus_Invalid(t *testing.T) {
	e, _, _ := newTestEngine(t, 20)
	ctx := context.Background()

	assert.ErrorIs(t, e.SetStatus(ctx, match.StatusDraw), ErrInvalidStatus)
	assert.ErrorIs(t, e.SetStatus(ctx, match.StatusLive), ErrInvalidStatus)
	assert.Equal(t, match.StatusLive, e.Match().Status)
}

func TestDeclareDraw(t *testing.T) {
	e, p, r := newTestEngine(t, 20, testutil.No(), testutil.Yes())
	ctx := context.Background()
	require.NoError(t, e.RecordRuns(ctx, 4))

	declared, err := e.DeclareDraw(ctx)
	require.NoError(t, err)
	assert.False(t, declared)
	assert.Equal(t, match.PhaseLive, e.Phase())

	declared, err = e.DeclareDraw(ctx)
	require.NoError(t, err)
	assert.True(t, declared)

	m := e.Match()
	assert.Equal(t, match.PhaseComplete, m.Phase)
	assert.Equal(t, match.StatusDraw, m.Status)
	assert.Equal(t, "Match Drawn", m.Result)
	assert.Equal(t, 2, len(p.Prompts("confirm")))

	out, ok := e.Outcome()
	require.True(t, ok)
	assert.Equal(t, OutcomeDraw, out.Kind)
	assert.False(t, out.SuperOverAvailable)

	recs := r.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "Match Drawn", recs[0].Result)

	assert.ErrorIs(t, e.RecordRuns(ctx, 1), ErrMatchNotLive)
	_, err = e.StartSuperOver(ctx)
	assert.ErrorIs(t, err, ErrSuperOverUnavailable)
}

func TestStartSuperOver(t *testing.T) {
	e, p, r := newTestEngine(t, 1, testutil.Yes())
	ctx := context.Background()

	_, err := e.UseReview(ctx, match.SideA)
	require.NoError(t, err)

	_, err = e.StartSuperOver(ctx)
	assert.ErrorIs(t, err, ErrSuperOverUnavailable, "only after a completed match")

	playTie(t, e, p)

	m := e.Match()
	assert.Equal(t, match.PhaseComplete, m.Phase)
	assert.Equal(t, "Match Tie", m.Result)
	out, ok := e.Outcome()
	require.True(t, ok)
	assert.Equal(t, OutcomeTie, out.Kind)
	assert.True(t, out.SuperOverAvailable)
	assert.Equal(t, match.PhaseComplete, e.Phase(), "a super over never starts on its own")
	require.Len(t, r.Records(), 1)

	p.Queue(testutil.No())
	started, err := e.StartSuperOver(ctx)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, m, e.Match())

	p.Queue(testutil.Yes())
	started, err = e.StartSuperOver(ctx)
	require.NoError(t, err)
	assert.True(t, started)

	m = e.Match()
	assert.True(t, m.SuperOver)
	assert.Equal(t, 1, m.MaxOvers)
	assert.Equal(t, 1, m.CurrentInnings)
	assert.Equal(t, match.PhaseSetup, m.Phase)
	assert.Nil(t, m.Target)
	assert.False(t, m.FreeHit)
	assert.Empty(t, m.Result)
	assert.Empty(t, m.Toss)
	assert.Equal(t, 1, m.DRSTeamA, "reviews carry into the super over")
	for i, inn := range m.Innings {
		require.NotNil(t, inn, "innings %d", i+1)
		assert.Equal(t, 0, inn.Runs)
		assert.Equal(t, 0, inn.Wickets)
		assert.Equal(t, 0, inn.Balls)
		assert.Empty(t, inn.Batters)
		assert.Empty(t, inn.Bowlers)
		assert.Equal(t, 0, inn.StrikerIdx)
		assert.Equal(t, 1, inn.NonStrikerIdx)
	}
	_, done := e.Outcome()
	assert.False(t, done)
	assert.Contains(t, p.Notifications(), "SUPER OVER MODE\n\n1 over per team. Highest score wins!")

	require.NoError(t, e.Toss("Australia", match.DecisionBat))
	require.NoError(t, e.Start(ctx, Openers{Striker: "Warner", NonStriker: "Head", Bowler: "Bumrah"}))
	m = e.Match()
	assert.Equal(t, "Australia", m.Innings[0].TeamName)
	assert.Equal(t, match.PhaseLive, m.Phase)
}

func TestSuperOverTieEndsMatch(t *testing.T) {
	e, p, r := newTestEngine(t, 1)
	ctx := context.Background()
	playTie(t, e, p)

	p.Queue(testutil.Yes())
	started, err := e.StartSuperOver(ctx)
	require.NoError(t, err)
	require.True(t, started)
	require.NoError(t, e.Toss("Australia", match.DecisionBat))
	require.NoError(t, e.Start(ctx, Openers{Striker: "Warner", NonStriker: "Head", Bowler: "Bumrah"}))

	playTie(t, e, p)

	assert.Equal(t, match.PhaseComplete, e.Phase())
	assert.Equal(t, "Match Tie", e.Match().Result)
	out, ok := e.Outcome()
	require.True(t, ok)
	assert.Equal(t, OutcomeTie, out.Kind)
	assert.False(t, out.SuperOverAvailable, "a tied super over is final")
	assert.Len(t, r.Records(), 2)

	confirms := len(p.Prompts("confirm"))
	_, err = e.StartSuperOver(ctx)
	assert.ErrorIs(t, err, ErrSuperOverUnavailable)
	assert.Equal(t, CodeSuperOverUnavailable, CodeOf(err))
	assert.Len(t, p.Prompts("confirm"), confirms, "no confirmation is asked")
	assert.True(t, e.Match().SuperOver)
}

func TestViewInnings(t *testing.T) {
	e, _, _ := newTestEngine(t, 20)

	require.NoError(t, e.ViewInnings(1))

	err := e.ViewInnings(2)
	require.Error(t, err)
	assert.True(t, IsInvariant(err))
	assert.ErrorIs(t, err, ErrNoSuchInnings)

	err = e.ViewInnings(3)
	assert.True(t, IsInvariant(err))
	assert.Equal(t, CodeNoSuchInnings, CodeOf(err))

	assert.Equal(t, 1, e.Match().ViewingInnings)
}
