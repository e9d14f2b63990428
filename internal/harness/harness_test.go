package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cricscore/internal/match"
)

func intp(n int) *int { return &n }

func boolp(b bool) *bool { return &b }

// oneOver is a one-over match with the toss done and openers set.
func oneOver(name string, steps ...Step) *Scenario {
	return &Scenario{
		Name:        name,
		Description: "test",
		Setup: MatchSetup{
			TeamA:        "India",
			TeamB:        "Australia",
			Overs:        1,
			TossWinner:   "India",
			TossDecision: "bat",
			Striker:      "Rohit",
			NonStriker:   "Gill",
			Bowler:       "Starc",
		},
		Steps: steps,
	}
}

func TestRun_Scenarios(t *testing.T) {
	files, err := FindScenarioFiles("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name, "scenario name matches its file")

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_StateAndTrace(t *testing.T) {
	scenario := oneOver("state", Step{Runs: intp(4)}, Step{Runs: intp(1)})
	scenario.Expect = &Expect{
		Phase: "live",
		Innings: map[int]InningsExpect{
			1: {Team: "India", Runs: intp(5), Balls: intp(2), Striker: "Gill", NonStriker: "Rohit", Bowler: "Starc"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 4)
	assert.Equal(t, "[3] runs:4 innings 1 4/0 (0.1)", FormatEvent(result.Trace[2]))
	assert.Equal(t, "[4] runs:1 innings 1 5/0 (0.2)", FormatEvent(result.Trace[3]))
	assert.Nil(t, result.Outcome)
	assert.Empty(t, result.Saved)
}

func TestRun_ExpectMismatch(t *testing.T) {
	scenario := oneOver("mismatch", Step{Runs: intp(2)})
	scenario.Expect = &Expect{
		Phase:   "complete",
		FreeHit: boolp(true),
		Target:  intp(10),
		Innings: map[int]InningsExpect{
			1: {Runs: intp(3)},
			2: {Runs: intp(0)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"expect.phase: got live, want complete",
		"expect.target: got none, want 10",
		"expect.free_hit: got false, want true",
		"expect.innings.1.runs: got 2, want 3",
		"expect.innings.2: innings has not started",
	}, result.Errors)
}

func TestRun_ExpectedErrors(t *testing.T) {
	scenario := oneOver("errors",
		Step{Runs: intp(9), ExpectError: "INVALID_RUNS"},
		Step{Runs: intp(1), ExpectError: "INVALID_RUNS"},
		Step{Resume: true, ExpectError: "FREE_HIT_DISMISSAL"},
	)
	scenario.Expect = &Expect{Innings: map[int]InningsExpect{1: {Runs: intp(1)}}}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "step 2 (runs): expected error INVALID_RUNS, got success", result.Errors[0])
	assert.Contains(t, result.Errors[1], "step 3 (resume): expected error FREE_HIT_DISMISSAL, got")
}

func TestRun_UnexpectedErrorStops(t *testing.T) {
	scenario := oneOver("stops", Step{Runs: intp(7)}, Step{Runs: intp(4)})
	scenario.Expect = &Expect{}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step 1 (runs): unexpected error")
	assert.Equal(t, 0, result.Match.Current().Runs, "later steps are skipped")
}

func TestRun_UnusedAnswers(t *testing.T) {
	scenario := oneOver("unused", Step{Runs: intp(1)})
	scenario.Answers = []string{"Kohli"}
	scenario.Expect = &Expect{}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"1 answer(s) were never used"}, result.Errors)
}

func TestRun_AllowDefaults(t *testing.T) {
	scenario := oneOver("defaults", Step{Wicket: string(match.Bowled)})
	scenario.AllowDefaults = true
	scenario.Expect = &Expect{Innings: map[int]InningsExpect{1: {Wickets: intp(1), Striker: "Batter 3"}}}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_SetupFailure(t *testing.T) {
	scenario := oneOver("setup")
	scenario.Setup.TeamB = "india"
	scenario.Steps = []Step{{Runs: intp(1)}}
	scenario.Expect = &Expect{}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "setup:")
}
