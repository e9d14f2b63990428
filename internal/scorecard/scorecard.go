// Package scorecard renders match state as a plain-text scorecard.
//
// The layout is fixed-width so that rendered cards are stable enough to be
// compared against golden files.
package scorecard

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/cricscore/internal/match"
)

const (
	battingHeader = "%-20s %-22s %4s %4s %3s %3s %7s\n"
	battingRow    = "%-20s %-22s %4d %4d %3d %3d %7.2f\n"
	bowlingHeader = "%-20s %5s %3s %4s %3s %6s\n"
	bowlingRow    = "%-20s %5s %3d %4d %3d %6.2f\n"
)

// Render writes the header and every started innings of m to w.
func Render(w io.Writer, m *match.Match) error {
	_, err := io.WriteString(w, String(m))
	return err
}

// String returns the full scorecard of m.
func String(m *match.Match) string {
	var b strings.Builder
	writeHeader(&b, m)
	for n := 1; n <= 2; n++ {
		if m.Inning(n) == nil {
			continue
		}
		b.WriteString("\n")
		writeInnings(&b, m, n)
	}
	return b.String()
}

// Innings writes the card of innings n only. Returns an error if n is not
// 1 or 2 or the innings has not started.
func Innings(w io.Writer, m *match.Match, n int) error {
	if n != 1 && n != 2 {
		return fmt.Errorf("scorecard: no innings %d", n)
	}
	if m.Inning(n) == nil {
		return fmt.Errorf("scorecard: innings %d has not started", n)
	}
	var b strings.Builder
	writeInnings(&b, m, n)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeHeader(b *strings.Builder, m *match.Match) {
	title := fmt.Sprintf("%s vs %s", m.TeamA, m.TeamB)
	if m.SuperOver {
		title += " (Super Over)"
	}
	fmt.Fprintf(b, "%s, %d %s\n", title, m.MaxOvers, plural(m.MaxOvers, "over", "overs"))
	if m.Toss != "" {
		b.WriteString(m.Toss + "\n")
	}
	if m.Status.Paused() {
		fmt.Fprintf(b, "Status: %s\n", m.Status)
	}
	if m.Result != "" {
		fmt.Fprintf(b, "Result: %s\n", m.Result)
	}
}

func writeInnings(b *strings.Builder, m *match.Match, n int) {
	inn := m.Inning(n)
	live := n == m.CurrentInnings && !inn.Closed && m.Phase == match.PhaseLive

	fmt.Fprintf(b, "Innings %d: %s %d/%d (%s ov)\n", n, inn.TeamName, inn.Runs, inn.Wickets, match.Overs(inn.Balls))

	fmt.Fprintf(b, battingHeader, "Batter", "", "R", "B", "4s", "6s", "SR")
	for i, bat := range inn.Batters {
		name := bat.Name
		if live && i == inn.StrikerIdx && !bat.IsOut {
			name += " *"
		}
		fmt.Fprintf(b, battingRow, name, bat.OutDesc, bat.Runs, bat.Balls, bat.Fours, bat.Sixes, bat.StrikeRate())
	}

	x := inn.Extras
	fmt.Fprintf(b, "Extras: %d (wd %d, nb %d, lb %d, b %d)\n", x.Total, x.Wides, x.NoBalls, x.LegByes, x.Byes)
	fmt.Fprintf(b, "Total: %d/%d (%s ov, RR %.2f)\n", inn.Runs, inn.Wickets, match.Overs(inn.Balls), inn.RunRate())

	if n == 2 && m.Target != nil {
		fmt.Fprintf(b, "Target: %d\n", *m.Target)
		if live {
			if rrr, ok := m.RequiredRunRate(); ok {
				left := m.BallsRemaining()
				fmt.Fprintf(b, "Need %d from %d %s (RRR %.2f)\n", m.RunsNeeded(), left, plural(left, "ball", "balls"), rrr)
			}
		}
	}
	if live {
		fmt.Fprintf(b, "Partnership: %d (%d)\n", inn.PartnershipRuns, inn.PartnershipBalls)
		if m.FreeHit {
			b.WriteString("FREE HIT\n")
		}
	}

	if len(inn.Bowlers) > 0 {
		fmt.Fprintf(b, bowlingHeader, "Bowler", "O", "M", "R", "W", "Econ")
		for _, bw := range inn.Bowlers {
			fmt.Fprintf(b, bowlingRow, bw.Name, match.Overs(bw.Balls), bw.Maidens, bw.Runs, bw.Wickets, bw.Economy())
		}
	}

	if live && len(m.ThisOver) > 0 {
		labels := make([]string, len(m.ThisOver))
		for i, ball := range m.ThisOver {
			labels[i] = ball.Label
		}
		fmt.Fprintf(b, "This over: %s\n", strings.Join(labels, " "))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
