package engine

import (
	"fmt"

	"github.com/roach88/cricscore/internal/match"
)

// OutcomeKind classifies how a match ended.
type OutcomeKind string

const (
	OutcomeWin  OutcomeKind = "win"
	OutcomeTie  OutcomeKind = "tie"
	OutcomeDraw OutcomeKind = "draw"
)

// Outcome is the result of a completed match.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Winner string      `json:"winner,omitempty"`

	// Margin is wickets in hand for a successful chase and runs for a
	// successful defence. Zero for ties and draws.
	Margin     int    `json:"margin,omitempty"`
	MarginUnit string `json:"margin_unit,omitempty"`

	// Text is the announced result, e.g. "India wins" or "Match Tie".
	Text string `json:"text"`

	// SuperOverAvailable is set for a tie after both innings were played
	// out, unless the tie came in a super over. A super over is never
	// started automatically.
	SuperOverAvailable bool `json:"super_over_available"`
}

// MarginText renders the margin, e.g. "by 4 wickets", or "".
func (o Outcome) MarginText() string {
	if o.Kind != OutcomeWin || o.Margin <= 0 {
		return ""
	}
	unit := o.MarginUnit
	if o.Margin == 1 {
		unit = unit[:len(unit)-1]
	}
	return fmt.Sprintf("by %d %s", o.Margin, unit)
}

// Calculate derives the outcome from the two innings.
//
// The side batting second wins by reaching the target. Otherwise the side
// batting first wins if it scored more, and equal scores are a tie.
// Calculate does not inspect the phase; it is pure over the innings.
func Calculate(m *match.Match) (Outcome, error) {
	first, second := m.Innings[0], m.Innings[1]
	if first == nil {
		return Outcome{}, newInningsError(1)
	}
	if second == nil {
		return Outcome{}, newInningsError(2)
	}

	target := first.Runs + 1
	if m.Target != nil {
		target = *m.Target
	}

	switch {
	case second.Runs >= target:
		return Outcome{
			Kind:       OutcomeWin,
			Winner:     second.TeamName,
			Margin:     match.MaxWickets - second.Wickets,
			MarginUnit: "wickets",
			Text:       second.TeamName + " wins",
		}, nil
	case first.Runs > second.Runs:
		return Outcome{
			Kind:       OutcomeWin,
			Winner:     first.TeamName,
			Margin:     first.Runs - second.Runs,
			MarginUnit: "runs",
			Text:       first.TeamName + " wins",
		}, nil
	}

	return Outcome{
		Kind:               OutcomeTie,
		Text:               "Match Tie",
		SuperOverAvailable: !m.SuperOver && m.Status != match.StatusDraw && playedOut(first, m.MaxOvers) && playedOut(second, m.MaxOvers),
	}, nil
}

func playedOut(inn *match.Innings, overs int) bool {
	return inn.AllOut() || inn.Balls >= overs*match.BallsPerOver
}
