package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cricscore/internal/match"
	"github.com/roach88/cricscore/internal/store"
)

// oneOverChase is a complete one-over match: India make 13, Australia
// chase 14 with a wide in the second over.
var oneOverChase = []string{
	"India", "bat", // toss
	"Rohit", "Gill", "Starc", // openers
	"4", "6", "1", "0", "0", "2",
	"Warner", "Smith", "Bumrah", // second innings openers
	"6", "6", "wd", "1",
}

func lines(ss ...string) *strings.Reader {
	return strings.NewReader(strings.Join(ss, "\n") + "\n")
}

func scoreOpts(root *RootOptions) *ScoreOptions {
	return &ScoreOptions{RootOptions: root, TeamA: "India", TeamB: "Australia", Overs: 1}
}

func TestRunScore_CompleteMatchIsSaved(t *testing.T) {
	root := testRoot(t, "text")
	out := &bytes.Buffer{}

	err := runScore(context.Background(), scoreOpts(root), lines(oneOverChase...), out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "India won the toss and elected to bat")
	assert.Contains(t, text, "Target: 14")
	assert.Contains(t, text, "Result: Australia wins")
	assert.Contains(t, text, "Saved match ")

	st, err := store.Open(root.Config.Store.Path)
	require.NoError(t, err)
	defer st.Close()

	records, err := st.ListMatches(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Australia wins", records[0].Result)
	assert.Equal(t, "India", records[0].TeamA)
}

func TestRunScore_JSONSummary(t *testing.T) {
	root := testRoot(t, "json")
	out := &bytes.Buffer{}

	require.NoError(t, runScore(context.Background(), scoreOpts(root), lines(oneOverChase...), out))

	all := strings.Split(strings.TrimSpace(out.String()), "\n")
	var resp struct {
		Status string      `json:"status"`
		Data   ScoreResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(all[len(all)-1]), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Complete)
	assert.Equal(t, "Australia wins", resp.Data.Result)
	assert.NotEmpty(t, resp.Data.MatchID)
	assert.Empty(t, resp.Data.SaveError)
}

func TestRunScore_RejectionsAndQuit(t *testing.T) {
	root := testRoot(t, "text")
	opts := scoreOpts(root)
	opts.TeamA, opts.TeamB = "", ""
	out := &bytes.Buffer{}

	input := lines(
		"India", "Australia", // team prompts
		"Pakistan", "bat", // not a team in this match
		"India", "chase",
		"India", "bowl",
		"Warner", "warner", "Bumrah", // same openers
		"Warner", "Head", "Bumrah",
		"7", "bouncer", "w", "4",
		"quit",
	)
	require.NoError(t, runScore(context.Background(), opts, input, out))

	text := out.String()
	assert.Contains(t, text, "Team A name:")
	assert.Contains(t, text, "Rejected: ")
	assert.Contains(t, text, "Please answer bat or bowl.")
	assert.Contains(t, text, "India won the toss and elected to bowl")
	assert.Contains(t, text, `unknown event "bouncer", type help`)
	assert.Contains(t, text, "which dismissal?")
	assert.Contains(t, text, "Innings 1: Australia 4/0 (0.1 ov)")
	assert.Contains(t, text, "Match abandoned, nothing saved.")
}

func TestRunScore_SquadsPickByNumber(t *testing.T) {
	root := testRoot(t, "text")
	root.Config.Players = 3
	opts := scoreOpts(root)
	opts.SquadA = "Rohit, Gill, Kohli"
	opts.SquadB = "Warner\nSmith\nStarc"
	out := &bytes.Buffer{}

	input := lines(
		"India", "bat",
		"1", "2", "3", // Rohit, Gill, Starc
		"w bowled", "1", // Kohli comes in
		"0", "0", "0", "0", "0",
		"2", "", "3", // Smith, Warner, Kohli
		"card", "quit",
	)
	require.NoError(t, runScore(context.Background(), opts, input, out))

	text := out.String()
	assert.Contains(t, text, "India squad: 1. Rohit  2. Gill  3. Kohli")
	assert.Contains(t, text, "Australia squad: 1. Warner  2. Smith  3. Starc")
	assert.Contains(t, text, "Yet to bat: 1. Kohli")
	assert.Contains(t, text, "Yet to bat: 1. Warner  2. Smith  3. Starc")
	assert.Contains(t, text, "Yet to bat: 1. Warner  2. Starc")
	assert.Contains(t, text, "Bowlers: 1. Rohit  2. Gill  3. Kohli")
	assert.Contains(t, text, "b Starc")
	assert.Contains(t, text, "Match abandoned, nothing saved.")
}

func TestRunScore_InputClosedEndsSession(t *testing.T) {
	root := testRoot(t, "text")
	out := &bytes.Buffer{}

	err := runScore(context.Background(), scoreOpts(root), lines("India", "bat", "Rohit", "Gill", "Starc", "1"), out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Match abandoned, nothing saved.")
}

func TestRunScore_InvalidSetup(t *testing.T) {
	root := testRoot(t, "text")
	opts := scoreOpts(root)
	opts.TeamB = "INDIA"

	err := runScore(context.Background(), opts, lines(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid match setup")
}

func TestPromptLine(t *testing.T) {
	root := testRoot(t, "text")
	out := &bytes.Buffer{}
	input := lines("India", "bat", "Rohit", "Gill", "Starc", "nb", "quit")

	require.NoError(t, runScore(context.Background(), scoreOpts(root), input, out))
	assert.Contains(t, out.String(), "India 0/0 (0.0) >")
	assert.Contains(t, out.String(), "India 1/0 (0.0) FREE HIT >")
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"4", command{kind: cmdRuns, runs: 4}},
		{" 0 ", command{kind: cmdRuns, runs: 0}},
		{"9", command{kind: cmdRuns, runs: 9}},
		{"wd", command{kind: cmdExtra, extra: match.Wide}},
		{"NB", command{kind: cmdExtra, extra: match.NoBall}},
		{"w caught", command{kind: cmdWicket, wicket: match.Caught}},
		{"wicket Run Out", command{kind: cmdWicket, wicket: match.RunOut}},
		{"review b", command{kind: cmdReview, side: match.SideB}},
		{"drs A", command{kind: cmdReview, side: match.SideA}},
		{"lunch", command{kind: cmdStatus, status: match.StatusLunch}},
		{"resume", command{kind: cmdResume}},
		{"draw", command{kind: cmdDraw}},
		{"super", command{kind: cmdSuperOver}},
		{"view 2", command{kind: cmdView, innings: 2}},
		{"card", command{kind: cmdCard}},
		{"?", command{kind: cmdHelp}},
		{"q", command{kind: cmdQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"", "   ", "w", "w timed out", "view", "view two", "4 runs", "declare"} {
		t.Run(line, func(t *testing.T) {
			_, err := parseCommand(line)
			assert.Error(t, err)
		})
	}
}
