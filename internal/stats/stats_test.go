package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cricscore/internal/match"
)

func record(t *testing.T, batters []match.Batter, bowlers []match.Bowler) match.Record {
	t.Helper()
	inn := match.NewInnings("India")
	inn.Batters = batters
	inn.Bowlers = bowlers
	data, err := json.Marshal([2]*match.Innings{inn, nil})
	require.NoError(t, err)
	return match.Record{TeamA: "India", TeamB: "Australia", ScoreData: data}
}

func TestAggregate_TopPerformers(t *testing.T) {
	records := []match.Record{
		record(t,
			[]match.Batter{{Name: "Rohit", Runs: 40}, {Name: "Gill", Runs: 55}},
			[]match.Bowler{{Name: "Starc", Wickets: 2}, {Name: "Cummins", Wickets: 1}},
		),
		record(t,
			[]match.Batter{{Name: "ROHIT ", Runs: 30}, {Name: "Kohli", Runs: 10}},
			[]match.Bowler{{Name: "cummins", Wickets: 3}},
		),
	}

	s := Aggregate(records)
	assert.Equal(t, 2, s.Matches)
	assert.Equal(t, 0, s.Skipped)

	require.NotNil(t, s.TopBatter)
	assert.Equal(t, Performer{Name: "Rohit", Runs: 70, Matches: 2}, *s.TopBatter)
	require.NotNil(t, s.TopBowler)
	assert.Equal(t, Performer{Name: "Cummins", Wickets: 4, Matches: 2}, *s.TopBowler)

	names := []string{}
	for _, p := range s.Batting {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Rohit", "Gill", "Kohli"}, names)
}

func TestAggregate_TiesKeepFirstSeen(t *testing.T) {
	s := Aggregate([]match.Record{
		record(t, []match.Batter{{Name: "A", Runs: 10}, {Name: "B", Runs: 10}}, nil),
	})
	require.NotNil(t, s.TopBatter)
	assert.Equal(t, "A", s.TopBatter.Name)
	assert.Nil(t, s.TopBowler)
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil)
	assert.Equal(t, 0, s.Matches)
	assert.Nil(t, s.TopBatter)
	assert.NotNil(t, s.Batting)
	assert.Empty(t, s.Batting)
}

func TestAggregate_SkipsBadScoreData(t *testing.T) {
	s := Aggregate([]match.Record{
		{TeamA: "A", TeamB: "B", ScoreData: json.RawMessage(`{"not":"innings"}`)},
		record(t, []match.Batter{{Name: "Rohit", Runs: 1}}, nil),
	})
	assert.Equal(t, 1, s.Matches)
	assert.Equal(t, 1, s.Skipped)
}

func TestSummary_Text(t *testing.T) {
	s := Aggregate([]match.Record{
		record(t, []match.Batter{{Name: "Rohit", Runs: 70}}, []match.Bowler{{Name: "Cummins", Wickets: 4}}),
	})
	assert.Equal(t, "Rohit (70 Runs)", s.TopBatterText())
	assert.Equal(t, "Cummins (4 Wkts)", s.TopBowlerText())

	empty := Aggregate(nil)
	assert.Equal(t, "-", empty.TopBatterText())
	assert.Equal(t, "-", empty.TopBowlerText())
}
