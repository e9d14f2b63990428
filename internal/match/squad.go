package match

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var squadSeparator = regexp.MustCompile(`\r?\n|,`)

// ParseSquad splits bulk squad input on newlines or commas into exactly
// size names. Blank entries are dropped, extra names are ignored, and
// missing slots are filled with "Player <prefix><n>".
//
// Example:
//
//	ParseSquad("Rohit, Virat\nGill", 4, "A") // [Rohit Virat Gill "Player A4"]
func ParseSquad(text string, size int, prefix string) []string {
	var names []string
	for _, part := range squadSeparator.Split(text, -1) {
		if n := CleanName(part, ""); n != "" {
			names = append(names, n)
		}
	}

	squad := make([]string, size)
	for i := range squad {
		if i < len(names) {
			squad[i] = names[i]
			continue
		}
		squad[i] = fmt.Sprintf("Player %s%d", prefix, i+1)
	}
	return squad
}

// Squad returns the squad registered for team, or nil when that team has
// none.
func (m *Match) Squad(team string) []string {
	switch {
	case team == "":
		return nil
	case SameName(team, m.TeamA):
		return m.SquadA
	case SameName(team, m.TeamB):
		return m.SquadB
	}
	return nil
}

// Without returns names minus every name in taken, keeping squad order.
func Without(names []string, taken ...string) []string {
	var left []string
	for _, n := range names {
		used := false
		for _, t := range taken {
			if SameName(n, t) {
				used = true
				break
			}
		}
		if !used {
			left = append(left, n)
		}
	}
	return left
}

// YetToBat returns the squad members with no batting entry in the innings.
func (inn *Innings) YetToBat(squad []string) []string {
	batted := make([]string, len(inn.Batters))
	for i, b := range inn.Batters {
		batted[i] = b.Name
	}
	return Without(squad, batted...)
}

// PickPlayer resolves a scorer's answer against a numbered list of
// players. "2" selects the second entry; any other answer is returned
// unchanged.
func PickPlayer(answer string, options []string) string {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(options) {
		return answer
	}
	return options[n-1]
}

// Roster lists players on one numbered line after label, e.g.
// "Yet to bat: 1. Kohli  2. Pant".
func Roster(label string, names []string) string {
	var b strings.Builder
	b.WriteString(label)
	for i, n := range names {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, n)
	}
	return b.String()
}
