// Package stats aggregates top performers across saved matches.
package stats

import (
	"fmt"
	"sort"

	"github.com/roach88/cricscore/internal/match"
)

// Performer is one player's totals across matches.
type Performer struct {
	Name    string `json:"name"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Matches int    `json:"matches"`
}

// Summary is the aggregate over a user's match history.
type Summary struct {
	Matches   int         `json:"matches"`
	Skipped   int         `json:"skipped"`
	TopBatter *Performer  `json:"top_batter"`
	TopBowler *Performer  `json:"top_bowler"`
	Batting   []Performer `json:"batting"`
	Bowling   []Performer `json:"bowling"`
}

type tally struct {
	order   []string
	entries map[string]*Performer
	seenIn  map[string]int
}

func newTally() *tally {
	return &tally{entries: map[string]*Performer{}, seenIn: map[string]int{}}
}

// get returns the performer for name, keyed by folded name. The first
// spelling seen is kept for display.
func (t *tally) get(name string, matchIdx int) *Performer {
	key := match.Fold(name)
	p, ok := t.entries[key]
	if !ok {
		p = &Performer{Name: match.CleanName(name, name)}
		t.entries[key] = p
		t.order = append(t.order, key)
		t.seenIn[key] = -1
	}
	if t.seenIn[key] != matchIdx {
		t.seenIn[key] = matchIdx
		p.Matches++
	}
	return p
}

// sorted returns performers by score descending; equal scores keep first
// appearance order.
func (t *tally) sorted(score func(Performer) int) []Performer {
	out := make([]Performer, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, *t.entries[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	return out
}

// Aggregate totals batter runs and bowler wickets across records, which
// are expected newest first as returned by the store. Records whose score
// data cannot be decoded are counted in Skipped.
func Aggregate(records []match.Record) Summary {
	batting, bowling := newTally(), newTally()
	s := Summary{Batting: []Performer{}, Bowling: []Performer{}}

	for i, rec := range records {
		innings, err := match.DecodeScoreData(rec.ScoreData)
		if err != nil {
			s.Skipped++
			continue
		}
		s.Matches++
		for _, inn := range innings {
			if inn == nil {
				continue
			}
			for _, b := range inn.Batters {
				batting.get(b.Name, i).Runs += b.Runs
			}
			for _, b := range inn.Bowlers {
				bowling.get(b.Name, i).Wickets += b.Wickets
			}
		}
	}

	s.Batting = batting.sorted(func(p Performer) int { return p.Runs })
	s.Bowling = bowling.sorted(func(p Performer) int { return p.Wickets })
	if len(s.Batting) > 0 {
		top := s.Batting[0]
		s.TopBatter = &top
	}
	if len(s.Bowling) > 0 {
		top := s.Bowling[0]
		s.TopBowler = &top
	}
	return s
}

// TopBatterText renders the top batter as shown in match history, e.g.
// "Rohit (70 Runs)", or "-" when no match has been played.
func (s Summary) TopBatterText() string {
	if s.TopBatter == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%d Runs)", s.TopBatter.Name, s.TopBatter.Runs)
}

// TopBowlerText renders the top bowler, e.g. "Cummins (4 Wkts)", or "-".
func (s Summary) TopBowlerText() string {
	if s.TopBowler == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%d Wkts)", s.TopBowler.Name, s.TopBowler.Wickets)
}
