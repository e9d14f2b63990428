package match

import "fmt"

// Overs formats a legal ball count in overs notation, e.g. 27 -> "4.3".
func Overs(balls int) string {
	return fmt.Sprintf("%d.%d", balls/BallsPerOver, balls%BallsPerOver)
}

// perOver returns runs per six balls, or 0 before the first legal ball.
func perOver(runs, balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return float64(runs) / (float64(balls) / BallsPerOver)
}

// RunRate is the current run rate of the innings.
func (inn *Innings) RunRate() float64 {
	return perOver(inn.Runs, inn.Balls)
}

// StrikeRate is runs per hundred balls faced.
func (b Batter) StrikeRate() float64 {
	if b.Balls <= 0 {
		return 0
	}
	return float64(b.Runs) / float64(b.Balls) * 100
}

// Economy is runs conceded per over.
func (b Bowler) Economy() float64 {
	return perOver(b.Runs, b.Balls)
}

// RequiredRunRate returns the run rate the chasing side needs over the
// remaining balls. ok is false outside a chase or once no balls remain.
func (m *Match) RequiredRunRate() (rate float64, ok bool) {
	if m.CurrentInnings != 2 || m.Target == nil || m.Current() == nil {
		return 0, false
	}
	left := m.BallsRemaining()
	if left <= 0 {
		return 0, false
	}
	return perOver(*m.Target-m.Current().Runs, left), true
}

// RunsNeeded returns the runs the chasing side still needs, or 0 outside a
// chase.
func (m *Match) RunsNeeded() int {
	if m.CurrentInnings != 2 || m.Target == nil || m.Current() == nil {
		return 0
	}
	if n := *m.Target - m.Current().Runs; n > 0 {
		return n
	}
	return 0
}
