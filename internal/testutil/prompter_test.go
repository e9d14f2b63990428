package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cricscore/internal/match"
)

func TestScriptedPrompter_ReplaysInOrder(t *testing.T) {
	ctx := context.Background()
	p := NewScriptedPrompter(Text("Warne"), Yes(), No())

	name, err := p.RequestText(ctx, "New Batter Name")
	require.NoError(t, err)
	assert.Equal(t, "Warne", name)

	ok, err := p.RequestConfirmation(ctx, "Is Striker (A) the one?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.RequestConfirmation(ctx, "Resume match?")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 0, p.Remaining())
	assert.Equal(t, []string{"Is Striker (A) the one?", "Resume match?"}, p.Prompts("confirm"))
}

func TestScriptedPrompter_TextAnswersConfirmations(t *testing.T) {
	p := NewScriptedPrompter(Text("yes"), Text("n"))

	ok, err := p.RequestConfirmation(context.Background(), "q1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.RequestConfirmation(context.Background(), "q2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScriptedPrompter_EmptyQueue(t *testing.T) {
	p := NewScriptedPrompter()

	_, err := p.RequestText(context.Background(), "Next Bowler Name")
	assert.ErrorIs(t, err, ErrNoAnswer)

	p.AllowDefaults = true
	name, err := p.RequestText(context.Background(), "Next Bowler Name")
	require.NoError(t, err)
	assert.Empty(t, name)

	_, err = p.RequestConfirmation(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestScriptedPrompter_QueuedFailure(t *testing.T) {
	boom := errors.New("terminal closed")
	p := NewScriptedPrompter(Fail(boom))

	_, err := p.RequestText(context.Background(), "Fielder Name")
	assert.ErrorIs(t, err, boom)

	ex := p.Exchanges()
	require.Len(t, ex, 1)
	assert.Equal(t, "terminal closed", ex[0].Failure)
}

func TestScriptedPrompter_ConfirmationForTextPromptFails(t *testing.T) {
	p := NewScriptedPrompter(Yes())
	_, err := p.RequestText(context.Background(), "Fielder Name")
	assert.Error(t, err)
}

func TestScriptedPrompter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewScriptedPrompter(Text("x"))
	_, err := p.RequestText(ctx, "Fielder Name")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, p.Remaining(), "cancelled request must not consume an answer")
}

func TestScriptedPrompter_NotifyHook(t *testing.T) {
	var got []string
	p := NewScriptedPrompter()
	p.OnNotify = func(_ context.Context, msg string) { got = append(got, msg) }

	p.Notify(context.Background(), "Over Complete!")

	assert.Equal(t, []string{"Over Complete!"}, got)
	assert.Equal(t, []string{"Over Complete!"}, p.Notifications())
}

func TestMemoryRecorder(t *testing.T) {
	r := NewMemoryRecorder()

	id, err := r.SaveMatch(context.Background(), match.Record{TeamA: "A", TeamB: "B", Result: "A wins"})
	require.NoError(t, err)
	assert.Equal(t, "match-1", id)

	r.Err = errors.New("disk full")
	_, err = r.SaveMatch(context.Background(), match.Record{})
	assert.EqualError(t, err, "disk full")

	recs := r.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "match-1", recs[0].ID)
}
