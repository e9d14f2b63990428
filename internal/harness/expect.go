package harness

import (
	"fmt"
	"sort"

	"github.com/roach88/cricscore/internal/match"
)

// checkExpect compares the final match against the expected subset and
// returns one message per mismatch.
func checkExpect(m *match.Match, want Expect) []string {
	if m == nil {
		return []string{"expect: no match state"}
	}

	var errs []string
	check := func(field string, got, want any) {
		if got != want {
			errs = append(errs, fmt.Sprintf("expect.%s: got %v, want %v", field, got, want))
		}
	}

	if want.Phase != "" {
		check("phase", string(m.Phase), want.Phase)
	}
	if want.Status != "" {
		check("status", string(m.Status), want.Status)
	}
	if want.Result != "" {
		check("result", m.Result, want.Result)
	}
	if want.Target != nil {
		if m.Target == nil {
			errs = append(errs, fmt.Sprintf("expect.target: got none, want %d", *want.Target))
		} else {
			check("target", *m.Target, *want.Target)
		}
	}
	if want.FreeHit != nil {
		check("free_hit", m.FreeHit, *want.FreeHit)
	}
	if want.DRSA != nil {
		check("drs_a", m.DRSTeamA, *want.DRSA)
	}
	if want.DRSB != nil {
		check("drs_b", m.DRSTeamB, *want.DRSB)
	}
	if want.SuperOver != nil {
		check("super_over", m.SuperOver, *want.SuperOver)
	}

	ns := make([]int, 0, len(want.Innings))
	for n := range want.Innings {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	for _, n := range ns {
		errs = append(errs, checkInnings(m, n, want.Innings[n])...)
	}
	return errs
}

func checkInnings(m *match.Match, n int, want InningsExpect) []string {
	inn := m.Inning(n)
	if inn == nil {
		return []string{fmt.Sprintf("expect.innings.%d: innings has not started", n)}
	}

	var errs []string
	check := func(field string, got, want any) {
		if got != want {
			errs = append(errs, fmt.Sprintf("expect.innings.%d.%s: got %v, want %v", n, field, got, want))
		}
	}

	if want.Team != "" {
		check("team", inn.TeamName, want.Team)
	}
	if want.Runs != nil {
		check("runs", inn.Runs, *want.Runs)
	}
	if want.Wickets != nil {
		check("wickets", inn.Wickets, *want.Wickets)
	}
	if want.Balls != nil {
		check("balls", inn.Balls, *want.Balls)
	}
	if want.Closed != nil {
		check("closed", inn.Closed, *want.Closed)
	}
	if want.Striker != "" && len(inn.Batters) > inn.StrikerIdx {
		check("striker", inn.Striker().Name, want.Striker)
	}
	if want.NonStriker != "" && len(inn.Batters) > inn.NonStrikerIdx {
		check("non_striker", inn.NonStriker().Name, want.NonStriker)
	}
	if want.Bowler != "" && len(inn.Bowlers) > inn.BowlerIdx {
		check("bowler", inn.Bowler().Name, want.Bowler)
	}
	return errs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
